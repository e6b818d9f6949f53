// Package pedigree renders a pedigree as a node-link drawing: individuals
// as sex-shaped nodes, nuclear families as small junction points between the
// parents and their children.
package pedigree

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/pedkit/pedkit/pkg/ped"
)

// Options configures pedigree rendering.
type Options struct {
	// Detailed includes generation and sequence numbers in node labels.
	// When false, only the identifier is shown.
	Detailed bool
}

// ToDOT converts one pedigree of the cohort to Graphviz DOT. Males draw as
// boxes, females as ellipses, unknown sex as diamonds, per drawing
// convention. Each family becomes a point node with edges father -> point,
// mother -> point, point -> child, so full sibships share one fan-out.
func ToDOT(c *ped.Cohort, pedID int, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph P {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [style=filled, fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [dir=none];\n")
	buf.WriteString("  ranksep=0.7;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, in := range c.Inds {
		if in.Ped != pedID {
			continue
		}
		fmt.Fprintf(&buf, "  %q [shape=%s, label=%q];\n",
			nodeID(in), sexShape(in.Sex), fmtLabel(in, opts.Detailed))
	}

	buf.WriteString("\n")
	for fi, f := range c.Fams {
		if f.Ped != pedID {
			continue
		}
		junction := fmt.Sprintf("fam%d", fi)
		fmt.Fprintf(&buf, "  %q [shape=point, width=0.08, label=\"\"];\n", junction)
		fmt.Fprintf(&buf, "  %q -> %q;\n", nodeID(c.Inds[f.Fa]), junction)
		fmt.Fprintf(&buf, "  %q -> %q;\n", nodeID(c.Inds[f.Mo]), junction)
		for _, kid := range c.Children(fi) {
			fmt.Fprintf(&buf, "  %q -> %q;\n", junction, nodeID(c.Inds[kid]))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(in *ped.Individual) string {
	return strings.TrimSpace(in.ID)
}

func sexShape(s ped.Sex) string {
	switch s {
	case ped.SexMale:
		return "box"
	case ped.SexFemale:
		return "ellipse"
	}
	return "diamond"
}

func fmtLabel(in *ped.Individual, detailed bool) string {
	if !detailed {
		return nodeID(in)
	}
	return fmt.Sprintf("%s\ngen: %d\nseq: %d", nodeID(in), in.Gen, in.Seq+1)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	var buf bytes.Buffer
	if err := render(dot, graphviz.SVG, &buf); err != nil {
		return nil, err
	}
	return normalizeViewBox(buf.Bytes()), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	var buf bytes.Buffer
	if err := render(dot, graphviz.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func render(dot string, format graphviz.Format, buf *bytes.Buffer) error {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	if err := gv.Render(ctx, g, format, buf); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
