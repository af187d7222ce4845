package prefill

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/formpilot-mcp/pkg/types"
)

func testForm() *types.FormDocument {
	doc := types.NewFormDocument(types.FormMetadata{URL: "https://docs.google.com/forms/d/e/abc/viewform"})
	doc.Append(types.Question{Title: "Name", EntryID: "111"})
	doc.Append(types.Question{Title: "Section header"})
	doc.Append(types.Question{Title: "Pets", EntryID: "333"})
	return doc
}

func TestValues(t *testing.T) {
	v := Values(testForm(), types.AnswerSet{
		types.Text("Ada"),
		types.Text("ignored"),
		types.List("Cats", "Dogs"),
	})

	assert.Equal(t, []string{"Ada"}, v["entry.111"])
	assert.Equal(t, []string{"Cats", "Dogs"}, v["entry.333"])
	assert.Len(t, v, 2)
}

func TestValuesShorterAnswers(t *testing.T) {
	v := Values(testForm(), types.AnswerSet{types.Text("Ada")})
	assert.Equal(t, url.Values{"entry.111": {"Ada"}}, v)
}

func TestURL(t *testing.T) {
	values := url.Values{"entry.111": {"Ada Lovelace"}, "entry.333": {"Cats", "Dogs"}}

	link, err := URL("https://docs.google.com/forms/d/e/abc/viewform?entry.111=old&hl=en", values)
	require.NoError(t, err)

	u, err := url.Parse(link)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "pp_url", q.Get("usp"))
	assert.Equal(t, "en", q.Get("hl"))
	assert.Equal(t, []string{"Ada Lovelace"}, q["entry.111"])
	assert.Equal(t, []string{"Cats", "Dogs"}, q["entry.333"])
	assert.Equal(t, "/forms/d/e/abc/viewform", u.Path)
}

func TestURLErrors(t *testing.T) {
	_, err := URL("https://docs.google.com/forms/d/e/abc/viewform", url.Values{})
	assert.ErrorIs(t, err, ErrNoEntries)

	_, err = URL("/relative/viewform", url.Values{"entry.1": {"x"}})
	assert.Error(t, err)
}

func TestSubmitURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "https://docs.google.com/forms/d/e/abc/viewform", want: "https://docs.google.com/forms/d/e/abc/formResponse"},
		{in: "https://docs.google.com/forms/d/e/abc/viewform/?usp=sf_link#x", want: "https://docs.google.com/forms/d/e/abc/formResponse"},
		{in: "https://example.com/form", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := SubmitURL(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
