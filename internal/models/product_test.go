package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPubliclyVisible(t *testing.T) {
	cases := []struct {
		name      string
		status    ProductStatus
		available bool
		deleted   bool
		want      bool
	}{
		{"published and available", ProductStatusPublished, true, false, true},
		{"published but unavailable", ProductStatusPublished, false, false, false},
		{"draft and available", ProductStatusDraft, true, false, false},
		{"draft and unavailable", ProductStatusDraft, false, false, false},
		{"published but trashed", ProductStatusPublished, true, true, false},
		{"unavailable and trashed", ProductStatusPublished, false, true, false},
		{"draft and trashed", ProductStatusDraft, true, true, false},
		{"draft unavailable trashed", ProductStatusDraft, false, true, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := &Product{Status: tc.status, IsAvailable: tc.available, IsDeleted: tc.deleted}
			assert.Equal(t, tc.want, p.IsPubliclyVisible())
		})
	}
}
