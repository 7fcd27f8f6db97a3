package ecdsaverify

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// CandidateParser defines the interface for loading candidate hashes from various sources.
type CandidateParser interface {
	// ParseCandidates parses candidates from a source and returns them in source order.
	ParseCandidates(source string) ([]HashCandidate, error)
}

// JSONParser parses candidates from JSON files.
type JSONParser struct {
	LabelField    string // Field name for the label (default: "label")
	DigestField   string // Field name for the digest (default: "digest")
	PreimageField string // Field name for a pre-image to hash when no digest is given (default: "preimage")
	KindField     string // Field name for the hash kind applied to the pre-image (default: "kind")
}

// ParseCandidates parses candidates from a JSON file.
//
// Expected format:
// [
//
//	{"label": "Raw safeTxHash", "digest": "0x..."},
//	{"label": "safeTxHash", "preimage": "0x...", "kind": "sha256"}
//
// ]
func (p *JSONParser) ParseCandidates(jsonFile string) ([]HashCandidate, error) {
	file, err := os.Open(jsonFile)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read file")
	}
	defer file.Close()

	var items []map[string]interface{}
	if err := json.NewDecoder(file).Decode(&items); err != nil {
		return nil, errors.Wrap(err, "failed to parse JSON")
	}

	labelField := withDefault(p.LabelField, "label")
	digestField := withDefault(p.DigestField, "digest")
	preimageField := withDefault(p.PreimageField, "preimage")
	kindField := withDefault(p.KindField, "kind")

	candidates := make([]HashCandidate, 0, len(items))
	for i, item := range items {
		label, err := stringField(item, labelField)
		if err != nil {
			return nil, errors.Wrapf(err, "item %d", i)
		}
		if label == "" {
			label = fmt.Sprintf("candidate[%d]", i)
		}

		digest, err := stringField(item, digestField)
		if err != nil {
			return nil, errors.Wrapf(err, "item %d", i)
		}
		preimage, err := stringField(item, preimageField)
		if err != nil {
			return nil, errors.Wrapf(err, "item %d", i)
		}
		kind, err := stringField(item, kindField)
		if err != nil {
			return nil, errors.Wrapf(err, "item %d", i)
		}

		c, err := buildCandidate(label, digest, preimage, kind)
		if err != nil {
			return nil, errors.Wrapf(err, "item %d", i)
		}
		candidates = append(candidates, c)
	}

	return candidates, nil
}

// CSVParser parses candidates from CSV files.
type CSVParser struct {
	LabelCol    string // Column name for the label (default: "label")
	DigestCol   string // Column name for the digest (default: "digest")
	PreimageCol string // Column name for a pre-image (default: "preimage")
	KindCol     string // Column name for the hash kind (default: "kind")
}

// ParseCandidates parses candidates from a CSV file with a header row.
func (p *CSVParser) ParseCandidates(csvFile string) ([]HashCandidate, error) {
	file, err := os.Open(csvFile)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file")
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read header")
	}

	labelCol := withDefault(p.LabelCol, "label")
	digestCol := withDefault(p.DigestCol, "digest")
	preimageCol := withDefault(p.PreimageCol, "preimage")
	kindCol := withDefault(p.KindCol, "kind")

	labelIdx, digestIdx, preimageIdx, kindIdx := -1, -1, -1, -1
	for i, col := range header {
		switch strings.TrimSpace(col) {
		case labelCol:
			labelIdx = i
		case digestCol:
			digestIdx = i
		case preimageCol:
			preimageIdx = i
		case kindCol:
			kindIdx = i
		}
	}

	if digestIdx == -1 && preimageIdx == -1 {
		return nil, errors.New("missing required columns: digest or preimage")
	}

	candidates := make([]HashCandidate, 0)
	for row := 1; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to read record")
		}

		label := column(record, labelIdx)
		if label == "" {
			label = fmt.Sprintf("candidate[%d]", row-1)
		}

		c, err := buildCandidate(label, column(record, digestIdx), column(record, preimageIdx), column(record, kindIdx))
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", row)
		}
		candidates = append(candidates, c)
	}

	return candidates, nil
}

// buildCandidate turns either a digest or a pre-image plus hash kind into a candidate.
func buildCandidate(label, digestHex, preimageHex, kind string) (HashCandidate, error) {
	if digestHex != "" {
		digest, err := ParseDigest(digestHex)
		if err != nil {
			return HashCandidate{}, err
		}
		return HashCandidate{Label: label, Digest: digest}, nil
	}

	if preimageHex == "" {
		return HashCandidate{}, errors.New("missing digest or preimage")
	}
	preimage, err := DecodeHex(preimageHex)
	if err != nil {
		return HashCandidate{}, errors.Wrap(err, "preimage")
	}

	k := HashRaw
	if kind != "" {
		if k, err = ParseHashKind(kind); err != nil {
			return HashCandidate{}, err
		}
	}
	digest, err := k.Digest(preimage)
	if err != nil {
		return HashCandidate{}, err
	}
	return HashCandidate{Label: k.Label(label), Digest: digest}, nil
}

func stringField(item map[string]interface{}, field string) (string, error) {
	val, ok := item[field]
	if !ok || val == nil {
		return "", nil
	}
	s, ok := val.(string)
	if !ok {
		return "", errors.Errorf("field %q must be a string, got %T", field, val)
	}
	return strings.TrimSpace(s), nil
}

func column(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
