package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot is a struct used to decode all possible top-level blocks from any file.
type fileRoot struct {
	Characters []*characterBlock `hcl:"character,block"`
	Limbs      []*limbBlock      `hcl:"limb,block"`
	Markers    []*markerBlock    `hcl:"marker,block"`
}

// characterBlock names the character the markers belong to.
type characterBlock struct {
	Name       string   `hcl:"name"`
	Initials   string   `hcl:"initials"`
	LayoutSize *float64 `hcl:"layout_size,optional"`
}

// limbBlock runs the marker generator of a limb type.
type limbBlock struct {
	Type    string         `hcl:"type,label"`
	Name    string         `hcl:"name,label"`
	Parent  string         `hcl:"parent,optional"`
	Options hcl.Expression `hcl:"options,optional"`
}

// markerBlock places a single marker joint.
type markerBlock struct {
	Name        string    `hcl:"name,label"`
	Side        string    `hcl:"side,optional"`
	Position    []float64 `hcl:"position,optional"`
	Parent      string    `hcl:"parent,optional"`
	Type        string    `hcl:"type,optional"`
	Size        float64   `hcl:"size,optional"`
	Limb        string    `hcl:"limb,optional"`
	Symmetrical bool      `hcl:"symmetrical,optional"`
}
