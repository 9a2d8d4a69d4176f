// Package dedup removes posts whose id was already processed in a prior run.
package dedup

import "tvsignal/internal/domain"

// Deduplicate returns the posts whose ids are absent from seenIDs, preserving
// input order. Neither argument is mutated; persistence of the seen-id window
// is the memory writer's job, not this stage's.
func Deduplicate(posts []domain.Post, seenIDs []string) []domain.Post {
	seen := make(map[string]struct{}, len(seenIDs))
	for _, id := range seenIDs {
		seen[id] = struct{}{}
	}

	fresh := make([]domain.Post, 0, len(posts))
	for _, post := range posts {
		if _, ok := seen[post.ID]; ok {
			continue
		}
		fresh = append(fresh, post)
	}

	return fresh
}
