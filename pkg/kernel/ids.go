package kernel

import "github.com/google/uuid"

type UserID string

func NewUserID(id string) UserID { return UserID(id) }
func (u UserID) String() string  { return string(u) }
func (u UserID) IsEmpty() bool   { return string(u) == "" }

type UnitID string

func (u UnitID) String() string { return string(u) }
func (u UnitID) IsEmpty() bool  { return string(u) == "" }

type CollegeID string

func (c CollegeID) String() string { return string(c) }
func (c CollegeID) IsEmpty() bool  { return string(c) == "" }

type CampID string

func (c CampID) String() string { return string(c) }
func (c CampID) IsEmpty() bool  { return string(c) == "" }

type SubmissionID string

func (s SubmissionID) String() string { return string(s) }
func (s SubmissionID) IsEmpty() bool  { return string(s) == "" }

// NewID returns a random identifier for any of the id types
func NewID[T ~string]() T {
	return T(uuid.NewString())
}
