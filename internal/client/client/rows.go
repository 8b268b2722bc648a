package client

import (
	"encoding/json"
	"fmt"
)

// ScanRow decodes row into dst, matching columns to dst's json tags.
func ScanRow(row Row, dst any) error {
	b, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("scan row: %w", err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("scan row: %w", err)
	}
	return nil
}

// ScanRows decodes every row into a T. An empty input yields an empty,
// non-nil slice.
func ScanRows[T any](rows []Row) ([]T, error) {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		var v T
		if err := ScanRow(r, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
