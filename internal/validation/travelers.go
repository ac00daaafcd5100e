package validation

import (
	"github.com/Domenick1991/offercheck/internal/domain"
)

// HolderUniqueness allows at most one holder document per document type
// and traveler.
type HolderUniqueness struct{}

func (HolderUniqueness) ID() string { return domain.RuleDuplicateHolderDocument }

func (r HolderUniqueness) Check(in *Input) []domain.Violation {
	out := make([]domain.Violation, 0)
	for _, t := range in.Payload.Travelers {
		seen := make(map[domain.DocumentType]int)
		for i, doc := range t.Documents {
			if !doc.Holder {
				continue
			}
			if first, ok := seen[doc.DocumentType]; ok {
				out = append(out, domain.Errorf(r.ID(), domain.DocumentPath(t.Position, i)+".holder",
					"traveler %q already has a holder %s at documents[%d]", t.ID, doc.DocumentType, first))
				continue
			}
			seen[doc.DocumentType] = i
		}
	}
	return out
}
