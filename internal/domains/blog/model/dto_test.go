package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestUpdatePostRequest_ApplyToMetaDescription(t *testing.T) {
	tests := []struct {
		name string
		post Post
		req  UpdatePostRequest
		want string
	}{
		{
			name: "derived from excerpt follows excerpt edit",
			post: Post{Excerpt: "Old summary", Content: "<p>Body</p>", MetaDescription: "Old summary"},
			req:  UpdatePostRequest{Excerpt: strPtr("A <b>fresh</b> summary")},
			want: "A fresh summary",
		},
		{
			name: "derived from content follows content edit",
			post: Post{Content: "<p>First draft</p>", MetaDescription: "First draft"},
			req:  UpdatePostRequest{Content: strPtr("<p>Second draft</p>")},
			want: "Second draft",
		},
		{
			name: "cleared excerpt falls back to content",
			post: Post{Excerpt: "Teaser", Content: "<p>Full story</p>", MetaDescription: "Teaser"},
			req:  UpdatePostRequest{Excerpt: strPtr("")},
			want: "Full story",
		},
		{
			name: "hand written meta survives excerpt edit",
			post: Post{Excerpt: "Old summary", Content: "Body", MetaDescription: "Hand written"},
			req:  UpdatePostRequest{Excerpt: strPtr("New summary")},
			want: "Hand written",
		},
		{
			name: "explicit empty meta re-derives",
			post: Post{Excerpt: "Summary", Content: "Body", MetaDescription: "Hand written"},
			req:  UpdatePostRequest{MetaDescription: strPtr("")},
			want: "Summary",
		},
		{
			name: "explicit meta wins over excerpt edit",
			post: Post{Excerpt: "Old summary", Content: "Body", MetaDescription: "Old summary"},
			req:  UpdatePostRequest{Excerpt: strPtr("New summary"), MetaDescription: strPtr("  Custom  ")},
			want: "Custom",
		},
		{
			name: "title edit leaves derived meta alone",
			post: Post{Title: "Old", Excerpt: "Summary", Content: "Body", MetaDescription: "Summary"},
			req:  UpdatePostRequest{Title: strPtr("New")},
			want: "Summary",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.post
			p.Category = "News"

			tt.req.ApplyTo(&p)

			assert.Equal(t, tt.want, p.MetaDescription)
		})
	}
}
