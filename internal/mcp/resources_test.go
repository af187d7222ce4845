package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResourceURI(t *testing.T) {
	tests := []struct {
		uri     string
		want    map[string]string
		wantErr bool
	}{
		{uri: "formpilot://schema/form-document", want: map[string]string{"name": "form-document"}},
		{uri: "formpilot://form/https%3A%2F%2Fdocs.google.com%2Fforms%2Fd%2Fx%2Fviewform", want: map[string]string{"url": "https://docs.google.com/forms/d/x/viewform"}},
		{uri: "formpilot://schema", wantErr: true},
		{uri: "formpilot://form/", wantErr: true},
		{uri: "formpilot://other/x", wantErr: true},
		{uri: "other://schema/x", wantErr: true},
		{uri: "formpilot://", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.uri, func(t *testing.T) {
			got, err := parseResourceURI(tc.uri)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
