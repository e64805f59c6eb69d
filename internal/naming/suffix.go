// internal/naming/suffix.go
package naming

// Suffixes shared by the builders. Limbs may use any other suffix that
// satisfies the segment grammar.
const (
	SuffixControl      = "control"
	SuffixFKControl    = "fkControl"
	SuffixIKControl    = "ikControl"
	SuffixIKPole       = "ikPole"
	SuffixTweakControl = "tweakControl"
	SuffixSwitch       = "switch"

	SuffixPoseJoint = "pose"
	SuffixIKJoint   = "ik"
	SuffixFKJoint   = "fk"
	SuffixBindJoint = "bindJoint"

	SuffixMarker      = "marker"
	SuffixGroup       = "grp"
	SuffixSystemGroup = "systemGrp"
	SuffixOffsetGroup = "offsetGrp"
)
