// internal/naming/doc.go

/*
Package naming provides the structured identity used for every object the
rig builder creates, based on the canonical format
`<initials><side><name>_<suffix>`.

Side is encoded as `_l_` (left), `_r_` (right) or a single `_` (center), e.g.
`ST_l_Hip_marker` or `ST_Spine2_pose`. Each segment must match
`[A-Za-z0-9]+`. Names that do not follow the grammar are kept as opaque
handles: they still address scene objects but cannot be decomposed, modified
or auto-incremented.

The package also owns collision resolution (ignore, throw, replace,
increment) against anything that can report whether a handle is live.
*/
package naming
