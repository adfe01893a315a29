// Package classify parses sequencing filenames into sample, lane and read role.
package classify

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/harrison/geoprep/internal/fileutil"
	"github.com/harrison/geoprep/internal/models"
)

// UnclassifiedError reports a file whose name does not follow a known convention
type UnclassifiedError struct {
	Path   string
	Reason string
}

func (e *UnclassifiedError) Error() string {
	return fmt.Sprintf("cannot classify %s: %s", e.Path, e.Reason)
}

// Classifier maps file paths to classifications
type Classifier struct {
	suffixes []string
}

// New returns a Classifier that strips the longest matching suffix from each basename
func New(suffixes []string) *Classifier {
	s := make([]string, len(suffixes))
	copy(s, suffixes)
	return &Classifier{suffixes: s}
}

// Classify parses path. 10x matrix artifacts are recognised by their location
// under a cellranger outs directory; everything else must be a FASTQ name.
func (c *Classifier) Classify(p string) (models.Classification, error) {
	if cl, ok, err := classifyTenX(p); ok || err != nil {
		return cl, err
	}

	base := filepath.Base(p)
	suffix, ok := fileutil.MatchSuffix(base, c.suffixes)
	if !ok {
		return models.Classification{}, &UnclassifiedError{Path: p, Reason: "no accepted suffix"}
	}
	stem := strings.TrimSuffix(base, suffix)

	toks := tokenize(stem)
	if len(toks) == 0 {
		return models.Classification{}, &UnclassifiedError{Path: p, Reason: "empty sample name"}
	}

	var sample, lanes, indexes []string
	role := models.ReadRole("")
	for _, tok := range toks {
		switch tok.kind {
		case tokenSample:
			sample = append(sample, tok.text)
		case tokenRole:
			role = models.ReadRole(strings.ToUpper(tok.text))
		case tokenLane:
			lanes = append(lanes, tok.text)
		case tokenSampleIndex:
			indexes = append(indexes, tok.text)
		}
	}

	if role == "" {
		return models.Classification{}, &UnclassifiedError{Path: p, Reason: "no read role token (R1, R2, I1, I2)"}
	}
	if len(sample) == 0 {
		return models.Classification{}, &UnclassifiedError{Path: p, Reason: "empty sample name"}
	}

	lane := strings.Join(lanes, "_")
	if lane == "" {
		lane = strings.Join(indexes, "_")
	}

	return models.Classification{
		SampleKey: strings.Join(sample, "_"),
		LaneKey:   lane,
		Role:      role,
		Kind:      models.KindFastq,
	}, nil
}

const (
	tenXMatrixDir = "/outs/filtered_feature_bc_matrix/"
	tenXH5        = "/outs/filtered_feature_bc_matrix.h5"
)

var tenXRoles = map[string]models.ReadRole{
	"matrix.mtx.gz":   models.RoleMatrix,
	"features.tsv.gz": models.RoleFeatures,
	"genes.tsv.gz":    models.RoleFeatures,
	"barcodes.tsv.gz": models.RoleBarcodes,
}

// TenXNames are the basenames the scanner must admit for 10x artifacts
func TenXNames() []string {
	return []string{"matrix.mtx.gz", "features.tsv.gz", "genes.tsv.gz", "barcodes.tsv.gz", path.Base(tenXH5)}
}

func classifyTenX(p string) (models.Classification, bool, error) {
	slashed := filepath.ToSlash(p)

	if i := strings.Index(slashed, tenXMatrixDir); i > 0 {
		role, ok := tenXRoles[slashed[i+len(tenXMatrixDir):]]
		if !ok {
			return models.Classification{}, false, &UnclassifiedError{Path: p, Reason: "unrecognised file in 10x matrix directory"}
		}
		return tenX(p, path.Base(slashed[:i]), role)
	}

	if strings.HasSuffix(slashed, tenXH5) {
		return tenX(p, path.Base(strings.TrimSuffix(slashed, tenXH5)), models.RoleH5)
	}

	return models.Classification{}, false, nil
}

func tenX(p, sample string, role models.ReadRole) (models.Classification, bool, error) {
	if sample == "" || sample == "/" || sample == "." {
		return models.Classification{}, false, &UnclassifiedError{Path: p, Reason: "10x artifact without a sample directory"}
	}
	return models.Classification{SampleKey: sample, Role: role, Kind: models.KindTenX}, true, nil
}

// Explain lists the filename tokens of p as "token=rule" pairs, in order.
// It returns nil when no accepted suffix matches.
func (c *Classifier) Explain(p string) []string {
	base := filepath.Base(p)
	suffix, ok := fileutil.MatchSuffix(base, c.suffixes)
	if !ok {
		return nil
	}
	toks := tokenize(strings.TrimSuffix(base, suffix))
	out := make([]string, len(toks))
	for i, tok := range toks {
		out[i] = tok.text + "=" + tok.kind.String()
	}
	return out
}
