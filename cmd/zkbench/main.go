// Command zkbench times Prove/Verify across the statement kinds this module
// composes (DLRep, DLRepNotEqual, an AND of two BBS+ SignatureProofs, an OR
// of two BBS+ SignatureProofs) and reports the results as text, JSON, CSV,
// or an HTML bar chart. Adapted from the teacher's cmd/bench: same flag
// surface and stderr/os.Exit(1) error convention, rebuilt against this
// module's own statement/sigma packages since the teacher's own
// benchmarks package imports a path outside its module and never builds.
//
// -pooled additionally times the teacher's pooled BBS+ paths —
// bbs.SignWithPooling/VerifyWithPooling (backed by ObjectPool/
// SignatureManager) and bbs.CreateProofWithPooling/VerifyProofWithPooling
// (backed by ProofManager) — giving all three otherwise-unreachable pooling
// types a real caller.
package main

import (
	"bytes"
	"crypto/rand"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"go.dedis.ch/kyber/v3/group/edwards25519"

	"github.com/anupsv/sigma-compose/bbs"
	"github.com/anupsv/sigma-compose/lincomb"
	"github.com/anupsv/sigma-compose/primitives/dlrne"
	"github.com/anupsv/sigma-compose/primitives/signatureproof"
	"github.com/anupsv/sigma-compose/secret"
	"github.com/anupsv/sigma-compose/sigma"
	"github.com/anupsv/sigma-compose/statement"
	"github.com/anupsv/sigma-compose/transcript"
)

// result is one row of the report: a statement kind's mean prove/verify
// latency over the configured iteration count.
type result struct {
	Name       string        `json:"name"`
	Iterations int           `json:"iterations"`
	ProveMean  time.Duration `json:"proveMeanNs"`
	VerifyMean time.Duration `json:"verifyMeanNs"`
}

func main() {
	iterations := flag.Int("iterations", 20, "number of timed iterations per statement kind")
	messages := flag.Int("messages", 4, "messages per BBS+ signature in the SignatureProof benchmarks")
	disclosed := flag.Int("disclosed", 1, "disclosed message count in the SignatureProof benchmarks")
	pooled := flag.Bool("pooled", true, "also benchmark the pooled BBS+ issuance/verification path")
	output := flag.String("output", "", "output file path (empty for stdout)")
	format := flag.String("format", "text", "output format: text, json, csv, html")
	flag.Parse()

	if *iterations < 1 {
		fmt.Fprintln(os.Stderr, "Error: iterations must be at least 1")
		os.Exit(1)
	}
	if *disclosed < 0 || *disclosed >= *messages {
		fmt.Fprintf(os.Stderr, "Error: disclosed must be between 0 and %d\n", *messages-1)
		os.Exit(1)
	}

	results := make([]result, 0, 5)

	r, err := benchDLRep(*iterations)
	must(err, "benchmark DLRep")
	results = append(results, r)

	r, err = benchDLRNE(*iterations)
	must(err, "benchmark DLRepNotEqual")
	results = append(results, r)

	r, err = benchSignatureAnd(*iterations, *messages, *disclosed)
	must(err, "benchmark AND of two SignatureProofs")
	results = append(results, r)

	r, err = benchSignatureOr(*iterations, *messages, *disclosed)
	must(err, "benchmark OR of two SignatureProofs")
	results = append(results, r)

	if *pooled {
		r, err = benchPooledBBS(*iterations, *messages, *disclosed)
		must(err, "benchmark pooled BBS+ issuance/verification")
		results = append(results, r)

		r, err = benchPooledProof(*iterations, *messages, *disclosed)
		must(err, "benchmark pooled BBS+ selective-disclosure proof")
		results = append(results, r)
	}

	report, err := render(results, strings.ToLower(*format))
	must(err, "render report")

	if *output == "" {
		fmt.Println(report)
		return
	}
	must(os.WriteFile(*output, []byte(report), 0o644), "write output file")
	fmt.Printf("Report written to %s\n", *output)
}

func render(results []result, format string) (string, error) {
	switch format {
	case "text":
		var b strings.Builder
		for _, r := range results {
			fmt.Fprintf(&b, "%-28s prove=%-14s verify=%-14s (n=%d)\n", r.Name, r.ProveMean, r.VerifyMean, r.Iterations)
		}
		return b.String(), nil
	case "json":
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data), nil
	case "csv":
		var b bytes.Buffer
		w := csv.NewWriter(&b)
		_ = w.Write([]string{"name", "iterations", "prove_mean_ns", "verify_mean_ns"})
		for _, r := range results {
			_ = w.Write([]string{
				r.Name,
				fmt.Sprintf("%d", r.Iterations),
				fmt.Sprintf("%d", r.ProveMean.Nanoseconds()),
				fmt.Sprintf("%d", r.VerifyMean.Nanoseconds()),
			})
		}
		w.Flush()
		return b.String(), w.Error()
	case "html":
		return renderHTML(results)
	default:
		return "", fmt.Errorf("unknown format %q (want text, json, csv, html)", format)
	}
}

// renderHTML draws a bar chart of prove/verify means per statement kind,
// finally giving go-chart (the teacher's second declared dependency,
// otherwise never imported anywhere in its own tree) a caller.
func renderHTML(results []result) (string, error) {
	proveBars := make([]chart.Value, len(results))
	verifyBars := make([]chart.Value, len(results))
	for i, r := range results {
		proveBars[i] = chart.Value{Value: float64(r.ProveMean.Microseconds()), Label: r.Name}
		verifyBars[i] = chart.Value{Value: float64(r.VerifyMean.Microseconds()), Label: r.Name}
	}

	proveChart := chart.BarChart{
		Title:    "Prove latency (microseconds)",
		Height:   400,
		BarWidth: 50,
		Bars:     proveBars,
	}
	verifyChart := chart.BarChart{
		Title:    "Verify latency (microseconds)",
		Height:   400,
		BarWidth: 50,
		Bars:     verifyBars,
	}

	var proveSVG, verifySVG bytes.Buffer
	if err := proveChart.Render(chart.SVG, &proveSVG); err != nil {
		return "", fmt.Errorf("render prove chart: %w", err)
	}
	if err := verifyChart.Render(chart.SVG, &verifySVG); err != nil {
		return "", fmt.Errorf("render verify chart: %w", err)
	}

	var page strings.Builder
	page.WriteString("<html><head><title>sigma-compose benchmark</title></head><body>\n")
	page.WriteString(proveSVG.String())
	page.WriteString("\n")
	page.WriteString(verifySVG.String())
	page.WriteString("\n</body></html>\n")
	return page.String(), nil
}

func timeIterations(n int, f func() error) (time.Duration, error) {
	start := time.Now()
	for i := 0; i < n; i++ {
		if err := f(); err != nil {
			return 0, err
		}
	}
	return time.Since(start) / time.Duration(n), nil
}

func benchDLRep(n int) (result, error) {
	group := edwards25519.NewBlakeSHA256Ed25519()
	g := group.Point().Base()
	x := secret.Named("x")
	xv := group.Scalar().Pick(group.RandomStream())
	y := group.Point().Mul(xv, g)

	st, err := statement.Dlrep(group, y, lincomb.Term1(group, x, g))
	if err != nil {
		return result{}, err
	}
	values := sigma.Secrets{}
	values.Set(x, new(big.Int).SetBytes(xv.Bytes()))

	var tr sigma.Transcript
	proveMean, err := timeIterations(n, func() error {
		prover, err := st.GetProver(values)
		if err != nil {
			return err
		}
		tr, err = sigma.Prove(st, prover, transcript.SHA256)
		return err
	})
	if err != nil {
		return result{}, err
	}
	verifyMean, err := timeIterations(n, func() error {
		return sigma.Verify(st, tr, transcript.SHA256)
	})
	if err != nil {
		return result{}, err
	}
	return result{Name: "DLRep", Iterations: n, ProveMean: proveMean, VerifyMean: verifyMean}, nil
}

func benchDLRNE(n int) (result, error) {
	group := edwards25519.NewBlakeSHA256Ed25519()
	g0 := group.Point().Base()
	g1 := group.Point().Pick(group.RandomStream())
	x := secret.Named("x")
	xv := group.Scalar().Pick(group.RandomStream())
	y0 := group.Point().Mul(xv, g0)
	y1 := group.Point().Pick(group.RandomStream())

	st, err := dlrne.New(group, y0, g0, y1, g1, x, false)
	if err != nil {
		return result{}, err
	}
	values := sigma.Secrets{}
	values.Set(x, new(big.Int).SetBytes(xv.Bytes()))

	var tr sigma.Transcript
	proveMean, err := timeIterations(n, func() error {
		prover, err := st.GetProver(values)
		if err != nil {
			return err
		}
		tr, err = sigma.Prove(st, prover, transcript.SHA256)
		return err
	})
	if err != nil {
		return result{}, err
	}
	verifyMean, err := timeIterations(n, func() error {
		return sigma.Verify(st, tr, transcript.SHA256)
	})
	if err != nil {
		return result{}, err
	}
	return result{Name: "DLRepNotEqual", Iterations: n, ProveMean: proveMean, VerifyMean: verifyMean}, nil
}

func issueSignature(messageCount int) (*bbs.KeyPair, []*big.Int, *bbs.Signature, error) {
	kp, err := bbs.GenerateKeyPair(messageCount, rand.Reader)
	if err != nil {
		return nil, nil, nil, err
	}
	messages := make([]*big.Int, messageCount)
	for i := range messages {
		m, err := bbs.RandomScalar(rand.Reader)
		if err != nil {
			return nil, nil, nil, err
		}
		messages[i] = m
	}
	sig, err := bbs.Sign(kp.PrivateKey, kp.PublicKey, messages, nil)
	if err != nil {
		return nil, nil, nil, err
	}
	return kp, messages, sig, nil
}

func benchSignatureAnd(n, messageCount, disclosedCount int) (result, error) {
	kp0, msgs0, sig0, err := issueSignature(messageCount)
	if err != nil {
		return result{}, err
	}
	kp1, msgs1, sig1, err := issueSignature(messageCount)
	if err != nil {
		return result{}, err
	}
	disclosed := map[int]*big.Int{}
	for i := 0; i < disclosedCount; i++ {
		disclosed[i] = msgs0[i]
	}

	st0, err := signatureproof.New(kp0.PublicKey, disclosed, nil)
	if err != nil {
		return result{}, err
	}
	st1, err := signatureproof.New(kp1.PublicKey, nil, nil)
	if err != nil {
		return result{}, err
	}
	and, err := statement.AndOf(st0, st1)
	if err != nil {
		return result{}, err
	}

	values := sigma.Secrets{}
	values, err = st0.Bind(values, signatureproof.Witness{Signature: sig0, Messages: msgs0})
	if err != nil {
		return result{}, err
	}
	values, err = st1.Bind(values, signatureproof.Witness{Signature: sig1, Messages: msgs1})
	if err != nil {
		return result{}, err
	}

	var tr sigma.Transcript
	proveMean, err := timeIterations(n, func() error {
		prover, err := and.GetProver(values)
		if err != nil {
			return err
		}
		tr, err = sigma.Prove(and, prover, transcript.SHA256)
		return err
	})
	if err != nil {
		return result{}, err
	}
	verifyMean, err := timeIterations(n, func() error {
		return sigma.Verify(and, tr, transcript.SHA256)
	})
	if err != nil {
		return result{}, err
	}
	return result{Name: "SignatureProof AND", Iterations: n, ProveMean: proveMean, VerifyMean: verifyMean}, nil
}

func benchSignatureOr(n, messageCount, disclosedCount int) (result, error) {
	kp0, _, _, err := issueSignature(messageCount)
	if err != nil {
		return result{}, err
	}
	kp1, msgs1, sig1, err := issueSignature(messageCount)
	if err != nil {
		return result{}, err
	}
	disclosed := map[int]*big.Int{}
	for i := 0; i < disclosedCount; i++ {
		disclosed[i] = msgs1[i]
	}

	st0, err := signatureproof.New(kp0.PublicKey, nil, nil)
	if err != nil {
		return result{}, err
	}
	st1, err := signatureproof.New(kp1.PublicKey, disclosed, nil)
	if err != nil {
		return result{}, err
	}
	or, err := statement.OrOf(st0, st1)
	if err != nil {
		return result{}, err
	}

	values := sigma.Secrets{}
	values, err = st1.Bind(values, signatureproof.Witness{Signature: sig1, Messages: msgs1})
	if err != nil {
		return result{}, err
	}
	values = statement.WithRealBranch(values, 1)

	var tr sigma.Transcript
	proveMean, err := timeIterations(n, func() error {
		prover, err := or.GetProver(values)
		if err != nil {
			return err
		}
		tr, err = sigma.Prove(or, prover, transcript.SHA256)
		return err
	})
	if err != nil {
		return result{}, err
	}
	verifyMean, err := timeIterations(n, func() error {
		return sigma.Verify(or, tr, transcript.SHA256)
	})
	if err != nil {
		return result{}, err
	}
	return result{Name: "SignatureProof OR", Iterations: n, ProveMean: proveMean, VerifyMean: verifyMean}, nil
}

// benchPooledBBS times the teacher's own pooled issuance/verification path
// (bbs.SignWithPooling/VerifyWithPooling, backed by the default
// ObjectPool/SignatureManager) against repeated signing of the same message
// vector, the workload ObjectPool's sync.Pool reuse is meant for.
func benchPooledBBS(n, messageCount, _ int) (result, error) {
	kp, messages, _, err := issueSignature(messageCount)
	if err != nil {
		return result{}, err
	}

	var sig *bbs.Signature
	proveMean, err := timeIterations(n, func() error {
		var err error
		sig, err = bbs.SignWithPooling(kp.PrivateKey, kp.PublicKey, messages, nil)
		return err
	})
	if err != nil {
		return result{}, err
	}
	verifyMean, err := timeIterations(n, func() error {
		return bbs.VerifyWithPooling(kp.PublicKey, sig, messages, nil)
	})
	if err != nil {
		return result{}, err
	}
	return result{Name: "BBS+ pooled sign/verify", Iterations: n, ProveMean: proveMean, VerifyMean: verifyMean}, nil
}

// benchPooledProof times the teacher's ProofManager-backed selective
// disclosure path (bbs.CreateProofWithPooling/VerifyProofWithPooling)
// against repeated proof generation over the same signature, the workload
// ProofManager's domain-value cache and object pool are meant for.
func benchPooledProof(n, messageCount, disclosedCount int) (result, error) {
	kp, messages, sig, err := issueSignature(messageCount)
	if err != nil {
		return result{}, err
	}
	disclosedIndices := make([]int, disclosedCount)
	for i := range disclosedIndices {
		disclosedIndices[i] = i
	}

	var proof *bbs.ProofOfKnowledge
	var disclosedMessages map[int]*big.Int
	proveMean, err := timeIterations(n, func() error {
		var err error
		proof, disclosedMessages, err = bbs.CreateProofWithPooling(kp.PublicKey, sig, messages, disclosedIndices, nil)
		return err
	})
	if err != nil {
		return result{}, err
	}
	verifyMean, err := timeIterations(n, func() error {
		return bbs.VerifyProofWithPooling(kp.PublicKey, proof, disclosedMessages, nil)
	})
	if err != nil {
		return result{}, err
	}
	return result{Name: "BBS+ pooled proof", Iterations: n, ProveMean: proveMean, VerifyMean: verifyMean}, nil
}

func must(err error, step string) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", step, err)
		os.Exit(1)
	}
}
