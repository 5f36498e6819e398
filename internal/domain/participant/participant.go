package participant

import (
	"encoding/json"
	"errors"
	"slices"
	"strings"

	"github.com/google/uuid"
)

var ErrNameRequired = errors.New("participant name is required")

// Participant is a member of a gift exchange group
type Participant struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Phone     string       `json:"phone,omitempty"`
	Blacklist ExclusionSet `json:"blacklist"`
}

// New crea un participante con un ID nuevo y sin exclusiones
func New(name, phone string) (Participant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Participant{}, ErrNameRequired
	}

	return Participant{
		ID:        uuid.New().String(),
		Name:      name,
		Phone:     strings.TrimSpace(phone),
		Blacklist: NewExclusionSet(),
	}, nil
}

// Excludes reports whether id is in the participant's blacklist
func (p Participant) Excludes(id string) bool {
	return p.Blacklist.Has(id)
}

// CanGiveTo reports whether the participant may be assigned receiverID.
func (p Participant) CanGiveTo(receiverID string) bool {
	return receiverID != p.ID && !p.Excludes(receiverID)
}

// SameName compares names the way duplicate detection does: trimmed and case-insensitive.
func (p Participant) SameName(name string) bool {
	return strings.EqualFold(strings.TrimSpace(p.Name), strings.TrimSpace(name))
}

// Clone returns a copy that shares no state with p
func (p Participant) Clone() Participant {
	p.Blacklist = p.Blacklist.Clone()
	return p
}

// ExclusionSet is the set of participant ids a giver must not draw.
// The zero value is an empty set and is safe to read.
type ExclusionSet map[string]struct{}

func NewExclusionSet(ids ...string) ExclusionSet {
	set := make(ExclusionSet, len(ids))
	for _, id := range ids {
		set.Add(id)
	}
	return set
}

func (s ExclusionSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Add ignores empty ids
func (s ExclusionSet) Add(id string) {
	if id == "" {
		return
	}
	s[id] = struct{}{}
}

func (s ExclusionSet) Remove(id string) {
	delete(s, id)
}

func (s ExclusionSet) Len() int {
	return len(s)
}

// IDs returns the members sorted, so that output is stable
func (s ExclusionSet) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (s ExclusionSet) Clone() ExclusionSet {
	out := make(ExclusionSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// MarshalJSON encodes the set as a sorted array; an empty set is [] rather than null.
func (s ExclusionSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.IDs())
}

// UnmarshalJSON accepts an array of ids; null yields an empty set.
func (s *ExclusionSet) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = NewExclusionSet(ids...)
	return nil
}
