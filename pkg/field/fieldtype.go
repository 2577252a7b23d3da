package field

// FieldType tags one of the six classes of assignable attribute of a
// Course. It is a finite enumeration, never a class hierarchy: adding a
// new kind of field means adding a new constant here and a case in every
// switch over FieldType, not a new implementation of some interface.
type FieldType int

const (
	Slot FieldType = iota
	Classroom
	Instructor
	Segment
	IsMinor
	Program
	numFieldTypes
)

func (f FieldType) String() string {
	switch f {
	case Slot:
		return "slot"
	case Classroom:
		return "classroom"
	case Instructor:
		return "instructor"
	case Segment:
		return "segment"
	case IsMinor:
		return "isMinor"
	case Program:
		return "program"
	default:
		return "unknown"
	}
}

// FieldTypes returns every FieldType in allocation order: by course
// ascending, then by field in this fixed enumeration, then by value
// ascending (see pkg/allocator).
func FieldTypes() []FieldType {
	return []FieldType{Slot, Classroom, Instructor, Segment, IsMinor, Program}
}

// Count is the number of distinct FieldType tags.
func Count() int {
	return int(numFieldTypes)
}
