package models

import "strings"

// ReadRole identifies the table column a file occupies within a sample group
type ReadRole string

// Read roles
const (
	RoleR1       ReadRole = "R1"
	RoleR2       ReadRole = "R2"
	RoleI1       ReadRole = "I1"
	RoleI2       ReadRole = "I2"
	RoleMatrix   ReadRole = "MATRIX"
	RoleFeatures ReadRole = "FEATURES"
	RoleBarcodes ReadRole = "BARCODES"
	RoleH5       ReadRole = "H5"
)

// FastqRoles is the column order of FASTQ tables
var FastqRoles = []ReadRole{RoleR1, RoleR2, RoleI1, RoleI2}

// TenXRoles is the column order of the 10x table
var TenXRoles = []ReadRole{RoleMatrix, RoleFeatures, RoleBarcodes, RoleH5}

// Missing returns the placeholder written when a group has no file for the role
func (r ReadRole) Missing() string {
	return "MISSING_" + string(r)
}

// Kind separates FASTQ read groups from 10x matrix artifacts
type Kind int

const (
	KindFastq Kind = iota
	KindTenX
)

func (k Kind) String() string {
	switch k {
	case KindFastq:
		return "fastq"
	case KindTenX:
		return "10x"
	default:
		return "unknown"
	}
}

// DiscoveredFile is a file found under the scan root
type DiscoveredFile struct {
	Path       string // Absolute path
	Basename   string // Final path element
	Experiment string // Direct subfolder of the scan root, empty for files in the root itself
}

// Classification is the parsed identity of a single file
type Classification struct {
	SampleKey string
	LaneKey   string
	Role      ReadRole
	Kind      Kind
}

// GroupKey joins sample and lane keys; files sharing it form one table row
func (c Classification) GroupKey() string {
	if c.LaneKey == "" {
		return c.SampleKey
	}
	return c.SampleKey + "_" + c.LaneKey
}

// ClassifiedFile pairs a discovered file with its classification
type ClassifiedFile struct {
	File DiscoveredFile
	Classification
}

// SampleGroup holds at most one file per read role for one group key
type SampleGroup struct {
	Key       string
	SampleKey string
	LaneKey   string
	Kind      Kind
	Files     map[ReadRole]DiscoveredFile
}

// NewSampleGroup creates an empty group for the classification
func NewSampleGroup(c Classification) *SampleGroup {
	return &SampleGroup{
		Key:       c.GroupKey(),
		SampleKey: c.SampleKey,
		LaneKey:   c.LaneKey,
		Kind:      c.Kind,
		Files:     make(map[ReadRole]DiscoveredFile),
	}
}

// File returns the file filling role, if any
func (g *SampleGroup) File(role ReadRole) (DiscoveredFile, bool) {
	f, ok := g.Files[role]
	return f, ok
}

// Roles returns the column order for the group's kind
func (g *SampleGroup) Roles() []ReadRole {
	if g.Kind == KindTenX {
		return TenXRoles
	}
	return FastqRoles
}

// ChecksumUnavailable is recorded in place of a digest that could not be computed
const ChecksumUnavailable = "none"

// ChecksumRecord is the digest of one kept file
type ChecksumRecord struct {
	File   DiscoveredFile
	Digest string // Lowercase hex MD5, or ChecksumUnavailable
}

// Available reports whether the record holds a real digest
func (r ChecksumRecord) Available() bool {
	return r.Digest != "" && !strings.EqualFold(r.Digest, ChecksumUnavailable)
}
