package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"strconv"

	"github.com/pterm/pterm"

	"github.com/mahdiidarabi/ecdsa-verify/pkg/ecdsaverify"
)

// reporter prints check results to one writer.
type reporter struct {
	w    io.Writer
	ok   *pterm.PrefixPrinter
	fail *pterm.PrefixPrinter
	info *pterm.PrefixPrinter
	warn *pterm.PrefixPrinter

	passed, failed int
}

func newReporter(w io.Writer) *reporter {
	return &reporter{
		w:    w,
		ok:   pterm.Success.WithWriter(w),
		fail: pterm.Error.WithWriter(w),
		info: pterm.Info.WithWriter(w),
		warn: pterm.Warning.WithWriter(w),
	}
}

func (r *reporter) section(title string) {
	fmt.Fprintf(r.w, "\n%s\n", pterm.Bold.Sprint(title))
}

func (r *reporter) pass(format string, a ...interface{}) {
	r.passed++
	r.ok.Printfln(format, a...)
}

func (r *reporter) failf(format string, a ...interface{}) {
	r.failed++
	r.fail.Printfln(format, a...)
}

// err returns errChecksFailed when any check failed.
func (r *reporter) err() error {
	if r.failed > 0 {
		return errChecksFailed
	}
	return nil
}

func (r *reporter) summary() {
	total := r.passed + r.failed
	if r.failed == 0 {
		r.ok.Printfln("%d/%d checks passed", r.passed, total)
		return
	}
	r.fail.Printfln("%d/%d checks passed, %d failed", r.passed, total, r.failed)
}

func (r *reporter) key(name string, report *ecdsaverify.KeyReport, err error) {
	if err != nil {
		r.failf("%s: %v", name, err)
		return
	}

	r.info.Printfln("%s: %s key, address %s", name, report.Encoding, report.Address.Checksum())
	switch {
	case report.Expected.IsZero():
		r.passed++
	case report.Match:
		r.pass("%s: MATCH %s", name, report.Expected.Checksum())
	default:
		r.failf("%s: MISMATCH, expected %s", name, report.Expected.Checksum())
	}
}

func (r *reporter) match(name string, result *ecdsaverify.MatchResult, expected string, candidates int, err error) {
	if err != nil {
		r.failf("%s: %v", name, err)
		return
	}
	if result == nil {
		r.failf("%s: no candidate among %d recovers to %s", name, candidates, expected)
		return
	}

	r.pass("%s: MATCH on %q with v=%d (trial %d of %d)", name, result.Label, result.V, result.Trial, 2*candidates)
	r.info.Printfln("%s: signer %s", name, result.Address.Checksum())
	if !result.DeclaredParity {
		r.warn.Printfln("%s: signature declares the other parity; v=%d is the one that recovers", name, result.V)
	}
}

func (r *reporter) outcomes(outs []*ecdsaverify.Outcome, expected ecdsaverify.Address) error {
	data := pterm.TableData{{"Trial", "Candidate", "v", "Recovered address", "Match"}}
	for _, out := range outs {
		recovered := out.Address.Checksum()
		if !out.Recovered() {
			recovered = out.Err.Error()
		}
		match := ""
		if out.Recovered() && out.Address == expected {
			match = "yes"
		}
		data = append(data, []string{
			strconv.Itoa(out.Index + 1),
			out.Candidate.Label,
			strconv.Itoa(27 + int(out.Parity)),
			recovered,
			match,
		})
	}
	return r.table(data)
}

func (r *reporter) candidates(candidates []ecdsaverify.HashCandidate) error {
	data := pterm.TableData{{"#", "Label", "Digest"}}
	for i, c := range candidates {
		data = append(data, []string{strconv.Itoa(i), c.Label, "0x" + hex.EncodeToString(c.Digest[:])})
	}
	return r.table(data)
}

func (r *reporter) table(data pterm.TableData) error {
	s, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(r.w, s)
	return err
}
