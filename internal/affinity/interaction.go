package affinity

import (
	"context"
	"fmt"

	"github.com/ppiankov/dealflow/internal/model"
)

// interactionNotePageSize is enough to tell "some notes" from "none"
const interactionNotePageSize = 5

// InteractionKind classifies an existing relationship
type InteractionKind int

const (
	Clean InteractionKind = iota
	OnTargetList
	HasNotes
	OnOtherList
)

// Interaction is the outcome of a relationship check
type Interaction struct {
	Kind  InteractionKind
	Notes int // Set for HasNotes
}

// Any reports whether there is a prior relationship
func (i Interaction) Any() bool {
	return i.Kind != Clean
}

func (i Interaction) String() string {
	switch i.Kind {
	case OnTargetList:
		return "On target list"
	case HasNotes:
		return fmt.Sprintf("%d notes", i.Notes)
	case OnOtherList:
		return "On other list"
	default:
		return ""
	}
}

// CheckInteraction reports the strongest sign of a prior relationship with
// an organization: target list membership, then notes, then any other list
func (c *Client) CheckInteraction(ctx context.Context, orgID int64) (Interaction, error) {
	org, err := c.GetOrganization(ctx, orgID)
	if err != nil {
		return Interaction{}, err
	}
	if org == nil {
		return Interaction{Kind: Clean}, nil
	}

	for _, e := range org.ListEntries {
		if c.targetListID != 0 && e.ListID == c.targetListID {
			return Interaction{Kind: OnTargetList}, nil
		}
	}

	notes, err := c.ListNotes(ctx, orgID, interactionNotePageSize)
	if err != nil {
		return Interaction{}, err
	}
	if len(notes) > 0 {
		return Interaction{Kind: HasNotes, Notes: len(notes)}, nil
	}

	if len(org.ListEntries) > 0 {
		return Interaction{Kind: OnOtherList}, nil
	}
	return Interaction{Kind: Clean}, nil
}

// OnList reports whether an organization is on a list, with the entry
func (c *Client) OnList(ctx context.Context, orgID, listID int64) (bool, *model.ListEntry, error) {
	org, err := c.GetOrganization(ctx, orgID)
	if err != nil || org == nil {
		return false, nil, err
	}
	for i := range org.ListEntries {
		if org.ListEntries[i].ListID == listID {
			return true, &org.ListEntries[i], nil
		}
	}
	return false, nil, nil
}
