// Package prefill turns extracted forms and answers into submission field
// values and prefilled form links.
package prefill

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/usestring/formpilot-mcp/pkg/types"
)

// ErrNoEntries is returned when no question carries a submission field id.
var ErrNoEntries = errors.New("form has no submission entry ids")

// Values maps answers to submission fields. Answer i fills entry
// doc.Items[i].EntryID; list answers repeat the key. Items without an entry
// id, and answers past the last item, are skipped.
func Values(doc *types.FormDocument, answers types.AnswerSet) url.Values {
	v := url.Values{}
	for i, q := range doc.Items {
		if i >= len(answers) {
			break
		}
		if q.EntryID == "" {
			continue
		}
		key := "entry." + q.EntryID
		for _, s := range answers[i].Values() {
			v.Add(key, s)
		}
	}
	return v
}

// URL returns viewURL with the values appended as a prefilled link.
func URL(viewURL string, values url.Values) (string, error) {
	if len(values) == 0 {
		return "", ErrNoEntries
	}
	u, err := url.Parse(viewURL)
	if err != nil {
		return "", fmt.Errorf("parsing form URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("form URL %q is not absolute", viewURL)
	}

	q := u.Query()
	for key := range q {
		if strings.HasPrefix(key, "entry.") {
			q.Del(key)
		}
	}
	q.Set("usp", "pp_url")
	for key, vals := range values {
		for _, s := range vals {
			q.Add(key, s)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// SubmitURL returns the response endpoint that accepts the values as a form
// post. The trailing viewform segment is replaced with formResponse.
func SubmitURL(viewURL string) (string, error) {
	u, err := url.Parse(viewURL)
	if err != nil {
		return "", fmt.Errorf("parsing form URL: %w", err)
	}
	path := strings.TrimSuffix(u.Path, "/")
	if !strings.HasSuffix(path, "/viewform") {
		return "", fmt.Errorf("form URL %q does not end in viewform", viewURL)
	}
	u.Path = strings.TrimSuffix(path, "viewform") + "formResponse"
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), nil
}
