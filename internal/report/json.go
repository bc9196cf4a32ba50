// Package report renders aggregation results for human and machine consumers.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ykohei-dev/gh-contribs/internal/domain"
)

// WriteJSON writes the result list as pretty-printed JSON.
func WriteJSON(w io.Writer, repos []*domain.Repository) error {
	data, err := json.MarshalIndent(repos, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results to JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
