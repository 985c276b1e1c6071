package model

// TargetType tags the kind of entity a like or rating points at.
type TargetType string

const (
	TargetPost            TargetType = "post"
	TargetComment         TargetType = "comment"
	TargetTeacher         TargetType = "teacher"
	TargetCanteen         TargetType = "canteen"
	TargetTreeholePost    TargetType = "treehole_post"
	TargetTreeholeComment TargetType = "treehole_comment"
)

// Likeable reports whether the kind accepts like toggles.
func (t TargetType) Likeable() bool {
	switch t {
	case TargetPost, TargetComment, TargetTreeholePost, TargetTreeholeComment:
		return true
	}
	return false
}

// Rateable reports whether the kind accepts scored ratings.
func (t TargetType) Rateable() bool {
	return t == TargetTeacher || t == TargetCanteen
}

func (t TargetType) Valid() bool {
	return t.Likeable() || t.Rateable()
}
