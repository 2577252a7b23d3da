package constraints

// Tag names one predefined rule in the catalogue emitted by Add. Tags
// are also the keys a weight table must provide (spec.md §6.1).
type Tag string

const (
	InstructorSingleCourseAtATime    Tag = "instructorSingleCourseAtATime"
	ClassroomSingleCourseAtATime     Tag = "classroomSingleCourseAtATime"
	ProgramSingleCoreCourseAtATime   Tag = "programSingleCoreCourseAtATime"
	MinorInMinorTime                 Tag = "minorInMinorTime"
	ProgramAtMostOneOfCoreOrElective Tag = "programAtMostOneOfCoreOrElective"
	ExactlyOneSlotPerCourse          Tag = "exactlyOneSlotPerCourse"
	ExactlyOneClassroomPerCourse     Tag = "exactlyOneClassroomPerCourse"
	ExactlyOneInstructorPerCourse    Tag = "exactlyOneInstructorPerCourse"
	ExactlyOneIsMinorPerCourse       Tag = "exactlyOneIsMinorPerCourse"
	ExactlyOneSegmentPerCourse       Tag = "exactlyOneSegmentPerCourse"
	CoreInMorningTime                Tag = "coreInMorningTime"
	ElectiveInNonMorningTime         Tag = "electiveInNonMorningTime"

	// ExistingAssignmentPreferred is the supplemental soft rule from
	// original_source/ (SPEC_FULL.md): prefer keeping a course's
	// incumbent field assignment.
	ExistingAssignmentPreferred Tag = "existingAssignmentPreferred"

	// CustomConstraint tags every rule pkg/dsl compiles from a
	// user-supplied constraint file. Its weight is carried per
	// submission (the WEIGHT clause of each rule), not looked up from a
	// Table, so it never appears as a key a Table must provide.
	CustomConstraint Tag = "customConstraint"
)

// AllTags lists every predefined tag Add may submit, in the order Add
// emits them.
func AllTags() []Tag {
	return []Tag{
		InstructorSingleCourseAtATime,
		ClassroomSingleCourseAtATime,
		ProgramSingleCoreCourseAtATime,
		MinorInMinorTime,
		ProgramAtMostOneOfCoreOrElective,
		ExactlyOneSlotPerCourse,
		ExactlyOneClassroomPerCourse,
		ExactlyOneInstructorPerCourse,
		ExactlyOneIsMinorPerCourse,
		ExactlyOneSegmentPerCourse,
		CoreInMorningTime,
		ElectiveInNonMorningTime,
		ExistingAssignmentPreferred,
	}
}
