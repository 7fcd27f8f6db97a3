package ecdsaverify

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Client is the main entry point for hex-encoded inputs. It decodes and
// validates boundary values, then delegates to the pure functions of this package.
type Client struct {
	strategy SearchStrategy
	parser   CandidateParser
	logger   *zap.Logger
}

// NewClient creates a new client with default settings.
func NewClient() *Client {
	return &Client{
		strategy: NewSequentialSearch(),
		parser:   &JSONParser{},
		logger:   zap.NewNop(),
	}
}

// WithStrategy sets the search strategy.
func (c *Client) WithStrategy(strategy SearchStrategy) *Client {
	c.strategy = strategy
	return c
}

// WithParser sets the parser used for candidate files.
func (c *Client) WithParser(parser CandidateParser) *Client {
	c.parser = parser
	return c
}

// WithLogger sets the logger. A nil logger disables logging.
func (c *Client) WithLogger(logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c.logger = logger
	return c
}

// KeyReport is the result of deriving an address from a public key.
type KeyReport struct {
	Encoding  Encoding
	PublicKey PublicKey
	Address   Address
	Expected  Address // zero when no expected address was given
	Match     bool    // Address == Expected
}

// DeriveAddress normalizes a hex public key and derives its address.
func (c *Client) DeriveAddress(publicKeyHex string) (*KeyReport, error) {
	pk, enc, err := NormalizePublicKeyHex(publicKeyHex)
	if err != nil {
		c.logger.Debug("public key rejected", zap.Error(err))
		return nil, err
	}

	report := &KeyReport{Encoding: enc, PublicKey: pk, Address: DeriveAddress(pk)}
	c.logger.Debug("derived address",
		zap.Stringer("encoding", enc),
		zap.Stringer("address", report.Address))
	return report, nil
}

// CheckKey derives the address of a hex public key and compares it with expectedHex.
func (c *Client) CheckKey(publicKeyHex, expectedHex string) (*KeyReport, error) {
	expected, err := ParseAddress(expectedHex)
	if err != nil {
		return nil, errors.Wrap(err, "expected address")
	}

	report, err := c.DeriveAddress(publicKeyHex)
	if err != nil {
		return nil, err
	}
	report.Expected = expected
	report.Match = report.Address == expected
	return report, nil
}

// VerifySignature recovers signatureHex against the candidates and returns the
// first trial whose address equals expectedHex, or nil when none does.
// Only malformed inputs produce an error; exhaustion does not.
func (c *Client) VerifySignature(signatureHex string, candidates []HashCandidate, expectedHex string) (*MatchResult, error) {
	sig, err := ParseSignatureHex(signatureHex)
	if err != nil {
		return nil, err
	}
	expected, err := ParseAddress(expectedHex)
	if err != nil {
		return nil, errors.Wrap(err, "expected address")
	}
	return c.Verify(sig, candidates, expected), nil
}

// Verify runs the client's search strategy on an already parsed signature.
func (c *Client) Verify(sig *Signature, candidates []HashCandidate, expected Address) *MatchResult {
	if sig == nil {
		return nil
	}

	c.logger.Debug("starting recovery search",
		zap.String("strategy", c.strategy.Name()),
		zap.Int("candidates", len(candidates)),
		zap.Uint8("v", sig.V),
		zap.Bool("low_s", sig.IsLowS()))

	result := c.strategy.Search(sig, candidates, expected)
	if result == nil {
		c.logger.Debug("no candidate matched", zap.Stringer("expected", expected))
		return nil
	}

	c.logger.Debug("candidate matched",
		zap.String("label", result.Label),
		zap.Uint8("parity", result.Parity),
		zap.Int("trial", result.Trial))
	return result
}

// VerifySignatureFromFile is VerifySignature with candidates read by the client's parser.
func (c *Client) VerifySignatureFromFile(signatureHex, candidatesFile, expectedHex string) (*MatchResult, error) {
	candidates, err := c.parser.ParseCandidates(candidatesFile)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse candidates")
	}
	return c.VerifySignature(signatureHex, candidates, expectedHex)
}
