package hierarchy

import (
	"context"
	"fmt"

	apperrors "github.com/solvento/hrcore/pkg/errors"
)

// DefaultMaxDepth bounds how far up an ancestry chain the guard will walk.
// Organizational trees deeper than this are rejected outright.
const DefaultMaxDepth = 10

// ParentLookup resolves a node's parent id. A nil result means the node is a
// root. Implementations typically close over a gorm handle and must ignore
// soft-deleted rows.
type ParentLookup func(ctx context.Context, id uint) (*uint, error)

// CheckLink verifies that attaching nodeID under proposedParentID keeps the
// hierarchy a bounded tree. It rejects self-parenting, any path from the
// proposed parent back to the node, pre-existing cycles among the ancestors,
// and chains longer than maxDepth. Pass 0 for maxDepth to use
// DefaultMaxDepth.
func CheckLink(ctx context.Context, nodeID, proposedParentID uint, maxDepth int, lookup ParentLookup) error {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	if nodeID == proposedParentID {
		return apperrors.NewBusinessRule("a node cannot be its own parent", map[string]any{
			"node_id": nodeID,
		})
	}

	visited := map[uint]struct{}{proposedParentID: {}}
	current := proposedParentID

	for depth := 0; ; depth++ {
		if depth >= maxDepth {
			return apperrors.NewBusinessRule(
				fmt.Sprintf("hierarchy exceeds the maximum depth of %d", maxDepth),
				map[string]any{"node_id": nodeID, "parent_id": proposedParentID},
			)
		}

		parent, err := lookup(ctx, current)
		if err != nil {
			return fmt.Errorf("resolve parent of node %d: %w", current, err)
		}
		if parent == nil {
			return nil
		}

		if *parent == nodeID {
			return apperrors.NewBusinessRule("linking would create a cycle through the node", map[string]any{
				"node_id":   nodeID,
				"parent_id": proposedParentID,
			})
		}
		if _, seen := visited[*parent]; seen {
			return apperrors.NewBusinessRule("circular reference detected in existing hierarchy", map[string]any{
				"node_id":   nodeID,
				"repeat_id": *parent,
			})
		}
		visited[*parent] = struct{}{}
		current = *parent
	}
}
