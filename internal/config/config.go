// Package config loads TOML case files for the verify command.
//
// A case file lists public keys to check against addresses and signatures to
// recover against candidate hashes:
//
//	target = "0xe104892a4bcfb40cc2555c69e2a09050becf7ed8"
//
//	[search]
//	parallel = true
//	workers = 4
//
//	[[keys]]
//	name = "Wallet[0] (Secp256k1)"
//	public_key = "032c6f57..."
//
//	[[signatures]]
//	name = "Phase 2"
//	signature = "0x2caa5547..."
//
//	  [[signatures.preimages]]
//	  label = "safeTxHash"
//	  value = "16691fce..."
//	  kinds = ["raw", "sha256", "sha256d", "keccak256", "personal"]
package config

import (
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/mahdiidarabi/ecdsa-verify/pkg/ecdsaverify"
)

// Case is the content of one case file.
type Case struct {
	// Target is the default expected address for keys and signatures without their own.
	Target     string          `toml:"target"`
	Search     Search          `toml:"search"`
	Keys       []KeyCase       `toml:"keys"`
	Signatures []SignatureCase `toml:"signatures"`

	// dir is the directory of the case file; relative candidate files resolve against it.
	dir string
}

// Search selects and configures the search strategy.
type Search struct {
	Parallel    bool `toml:"parallel"`
	Workers     int  `toml:"workers"`
	RequireLowS bool `toml:"require_low_s"`
}

// KeyCase is a public key whose address is compared with Expected.
type KeyCase struct {
	Name      string `toml:"name"`
	PublicKey string `toml:"public_key"`
	Expected  string `toml:"expected"`
}

// SignatureCase is a signature recovered against its candidates.
type SignatureCase struct {
	Name           string      `toml:"name"`
	Signature      string      `toml:"signature"`
	Expected       string      `toml:"expected"`
	Candidates     []Candidate `toml:"candidates"`
	Preimages      []Preimage  `toml:"preimages"`
	CandidatesFile string      `toml:"candidates_file"`
}

// Candidate is a labeled digest given directly as hex.
type Candidate struct {
	Label  string `toml:"label"`
	Digest string `toml:"digest"`
}

// Preimage is hashed with each of Kinds to produce candidates.
type Preimage struct {
	Label string   `toml:"label"`
	Value string   `toml:"value"`
	Kinds []string `toml:"kinds"`
}

// Load reads and validates a case file.
func Load(path string) (*Case, error) {
	var c Case
	md, err := toml.DecodeFile(path, &c)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, errors.Errorf("%s: unknown keys %s", path, strings.Join(keys, ", "))
	}

	c.dir = filepath.Dir(path)
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, errors.Wrap(err, path)
	}
	return &c, nil
}

func (c *Case) applyDefaults() {
	for i := range c.Keys {
		if c.Keys[i].Expected == "" {
			c.Keys[i].Expected = c.Target
		}
		if c.Keys[i].Name == "" {
			c.Keys[i].Name = c.Keys[i].PublicKey
		}
	}
	for i := range c.Signatures {
		if c.Signatures[i].Expected == "" {
			c.Signatures[i].Expected = c.Target
		}
		if c.Signatures[i].Name == "" {
			c.Signatures[i].Name = c.Signatures[i].Signature
		}
	}
}

// Validate checks that every entry has the fields it needs. Hex content is
// validated later, per entry, so one bad key does not hide the others.
func (c *Case) Validate() error {
	if len(c.Keys) == 0 && len(c.Signatures) == 0 {
		return errors.New("case has no keys and no signatures")
	}
	if c.Search.Workers < 0 {
		return errors.Errorf("search.workers must not be negative, got %d", c.Search.Workers)
	}
	for i, k := range c.Keys {
		if k.PublicKey == "" {
			return errors.Errorf("keys[%d]: public_key is required", i)
		}
		if k.Expected == "" {
			return errors.Errorf("keys[%d] %q: expected address is required (set expected or target)", i, k.Name)
		}
	}
	for i, s := range c.Signatures {
		if s.Signature == "" {
			return errors.Errorf("signatures[%d]: signature is required", i)
		}
		if s.Expected == "" {
			return errors.Errorf("signatures[%d] %q: expected address is required (set expected or target)", i, s.Name)
		}
		if len(s.Candidates) == 0 && len(s.Preimages) == 0 && s.CandidatesFile == "" {
			return errors.Errorf("signatures[%d] %q: no candidates, preimages or candidates_file", i, s.Name)
		}
	}
	return nil
}

// Strategy returns the search strategy selected by the search section.
func (c *Case) Strategy() ecdsaverify.SearchStrategy {
	return c.Search.Strategy()
}

// Strategy returns the configured search strategy.
func (s Search) Strategy() ecdsaverify.SearchStrategy {
	config := ecdsaverify.SearchConfig{NumWorkers: s.Workers, RequireLowS: s.RequireLowS}
	if s.Parallel {
		return ecdsaverify.NewParallelSearch().WithConfig(config)
	}
	return ecdsaverify.NewSequentialSearch().WithConfig(config)
}

// BuildCandidates assembles the candidate set of a signature case: explicit
// candidates first, then pre-image variants, then the candidates file.
func (c *Case) BuildCandidates(s *SignatureCase) ([]ecdsaverify.HashCandidate, error) {
	b := ecdsaverify.NewCandidateBuilder()
	for _, cand := range s.Candidates {
		b.AddHex(cand.Label, cand.Digest)
	}

	for _, p := range s.Preimages {
		value, err := ecdsaverify.DecodeHex(p.Value)
		if err != nil {
			return nil, errors.Wrapf(err, "preimage %q", p.Label)
		}
		kinds := make([]ecdsaverify.HashKind, 0, len(p.Kinds))
		for _, name := range p.Kinds {
			k, err := ecdsaverify.ParseHashKind(name)
			if err != nil {
				return nil, errors.Wrapf(err, "preimage %q", p.Label)
			}
			kinds = append(kinds, k)
		}
		b.AddPreimage(p.Label, value, kinds...)
	}

	candidates, err := b.Build()
	if err != nil {
		return nil, err
	}

	if s.CandidatesFile != "" {
		fromFile, err := ParseCandidatesFile(c.resolve(s.CandidatesFile))
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, fromFile...)
	}
	return candidates, nil
}

func (c *Case) resolve(path string) string {
	if filepath.IsAbs(path) || c.dir == "" {
		return path
	}
	return filepath.Join(c.dir, path)
}

// ParseCandidatesFile picks the JSON or CSV parser by file extension.
func ParseCandidatesFile(path string) ([]ecdsaverify.HashCandidate, error) {
	candidates, err := ParserFor(path).ParseCandidates(path)
	if err != nil {
		return nil, errors.Wrapf(err, "candidates file %s", path)
	}
	return candidates, nil
}

// ParserFor returns the CSV parser for .csv files and the JSON parser otherwise.
func ParserFor(path string) ecdsaverify.CandidateParser {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return &ecdsaverify.CSVParser{}
	}
	return &ecdsaverify.JSONParser{}
}
