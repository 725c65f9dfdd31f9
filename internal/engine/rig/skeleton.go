package rig

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Faultbox/blockwalk/internal/engine/model"
)

// Part names an articulated body part of the character.
type Part int

// Body parts, in the submesh order of the stock character model.
const (
	Head Part = iota
	Body
	LeftLeg
	LeftArm
	RightArm
	RightLeg

	NumParts
)

var partNames = [NumParts]string{"head", "body", "left leg", "left arm", "right arm", "right leg"}

func (p Part) String() string {
	if p < 0 || p >= NumParts {
		return fmt.Sprintf("Part(%d)", int(p))
	}
	return partNames[p]
}

// ParsePart resolves a part name. Underscores and spaces are interchangeable.
func ParsePart(name string) (Part, error) {
	n := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), "_", " "))
	for p, pn := range partNames {
		if pn == n {
			return Part(p), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown part %q", ErrInvalidSkeleton, name)
}

// ErrInvalidSkeleton is returned when a skeleton does not fit its model.
var ErrInvalidSkeleton = errors.New("invalid skeleton")

// Skeleton maps each body part to a mesh index within the character model.
type Skeleton map[Part]int

// DefaultSkeleton matches the stock character model: head, body, left leg,
// left arm, right arm, right leg.
func DefaultSkeleton() Skeleton {
	return Skeleton{
		Head:     0,
		Body:     1,
		LeftLeg:  2,
		LeftArm:  3,
		RightArm: 4,
		RightLeg: 5,
	}
}

// ParseSkeleton builds a skeleton from part names to mesh indices, as
// written in configuration. An empty map yields DefaultSkeleton.
func ParseSkeleton(parts map[string]int) (Skeleton, error) {
	if len(parts) == 0 {
		return DefaultSkeleton(), nil
	}
	s := make(Skeleton, len(parts))
	for name, idx := range parts {
		p, err := ParsePart(name)
		if err != nil {
			return nil, err
		}
		s[p] = idx
	}
	return s, nil
}

// Validate checks that every part is mapped to a distinct, non-empty mesh of m.
func (s Skeleton) Validate(m *model.Model) error {
	seen := make(map[int]Part, len(s))
	for p := Part(0); p < NumParts; p++ {
		idx, ok := s[p]
		if !ok {
			return fmt.Errorf("%w: %s not mapped", ErrInvalidSkeleton, p)
		}
		if idx < 0 || idx >= m.NumMeshes() {
			return fmt.Errorf("%w: %s mesh %d out of range [0,%d)", ErrInvalidSkeleton, p, idx, m.NumMeshes())
		}
		if other, dup := seen[idx]; dup {
			return fmt.Errorf("%w: %s and %s share mesh %d", ErrInvalidSkeleton, other, p, idx)
		}
		seen[idx] = p
		if m.MeshAt(idx).VertexCount() == 0 {
			return fmt.Errorf("%w: %s mesh %d is empty", ErrInvalidSkeleton, p, idx)
		}
	}
	for p := range s {
		if p < 0 || p >= NumParts {
			return fmt.Errorf("%w: unknown part %d", ErrInvalidSkeleton, int(p))
		}
	}
	return nil
}
