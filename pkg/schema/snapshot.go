package schema

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// SectionNode is a section with its questions attached.
type SectionNode struct {
	Section
	Questions []Question `json:"questions"`
}

// InstrumentNode is an instrument with its sections attached.
type InstrumentNode struct {
	Instrument
	Sections []SectionNode `json:"sections"`
}

// IndicatorSnapshot is an immutable in-memory view of one indicator's whole
// schema tree, produced by a single batched fetch. The aggregator and
// evaluator operate on snapshots rather than walking the hierarchy with one
// query per node.
type IndicatorSnapshot struct {
	Indicator   Indicator        `json:"indicator"`
	Instruments []InstrumentNode `json:"instruments"`

	sections map[string]*SectionNode
	tags     map[string]mapset.Set[string]
}

// buildIndexes populates the section and sub-tag lookup maps.
func (s *IndicatorSnapshot) buildIndexes() {
	s.sections = make(map[string]*SectionNode)
	s.tags = make(map[string]mapset.Set[string])
	for i := range s.Instruments {
		for j := range s.Instruments[i].Sections {
			node := &s.Instruments[i].Sections[j]
			s.sections[node.SectionID] = node
			tags := mapset.NewThreadUnsafeSet[string]()
			for _, q := range node.Questions {
				tags.Add(q.SubTag)
			}
			s.tags[node.SectionID] = tags
		}
	}
}

// Section returns the section node for the given id, or nil.
func (s *IndicatorSnapshot) Section(sectionID string) *SectionNode {
	return s.sections[sectionID]
}

// Sections returns all section nodes in instrument order.
func (s *IndicatorSnapshot) Sections() []*SectionNode {
	var out []*SectionNode
	for i := range s.Instruments {
		for j := range s.Instruments[i].Sections {
			out = append(out, &s.Instruments[i].Sections[j])
		}
	}
	return out
}

// SubTags returns the set of sub-tags owned by a section. A formula may only
// reference sub-tags from its own section; anything else is undefined and
// evaluates to zero. Returns an empty set for unknown sections.
func (s *IndicatorSnapshot) SubTags(sectionID string) mapset.Set[string] {
	if tags, ok := s.tags[sectionID]; ok {
		return tags
	}
	return mapset.NewThreadUnsafeSet[string]()
}

// QuestionCount returns the total number of questions in the snapshot.
func (s *IndicatorSnapshot) QuestionCount() int {
	n := 0
	for _, sec := range s.sections {
		n += len(sec.Questions)
	}
	return n
}
