// Package report genera el CSV de resultados de un sorteo y lo publica en el object storage.
package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/gravadigital/amigo-secreto-api/internal/domain/draw"
	"github.com/gravadigital/amigo-secreto-api/internal/domain/group"
)

// utf8BOM ensures UTF-8 compatibility in Excel
const utf8BOM = "\xef\xbb\xbf"

const ContentType = "text/csv"

// Report is a rendered draw report
type Report struct {
	Filename string
	Cycles   []string
	Content  []byte
}

// Filename returns amigo-secreto-<draw id>.csv
func Filename(drawID string) string {
	return "amigo-secreto-" + drawID + ".csv"
}

// CycleLines renders each cycle of the draw as "A > B > C > A", in roster discovery order
func CycleLines(g *group.Group) []string {
	cycles := draw.ExtractCycles(g.DrawResults, g.ParticipantIDs())
	lines := make([]string, 0, len(cycles))
	for _, cycle := range cycles {
		names := make([]string, 0, len(cycle)+1)
		for _, id := range cycle {
			names = append(names, g.NameOf(id))
		}
		if last, ok := g.DrawResults[cycle[len(cycle)-1]]; ok && last == cycle[0] {
			names = append(names, g.NameOf(cycle[0]))
		}
		lines = append(lines, strings.Join(names, " > "))
	}
	return lines
}

// Build renders the report of the group's current draw
func Build(g *group.Group) (*Report, error) {
	if !g.HasDraw() {
		return nil, group.ErrNoDraw
	}

	var buf bytes.Buffer
	cycles := CycleLines(g)
	if err := write(&buf, g, cycles); err != nil {
		return nil, err
	}

	return &Report{
		Filename: Filename(g.DrawID),
		Cycles:   cycles,
		Content:  buf.Bytes(),
	}, nil
}

func write(out io.Writer, g *group.Group, cycles []string) error {
	if _, err := io.WriteString(out, utf8BOM); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	w := csv.NewWriter(out)

	rows := [][]string{{"Cycle"}}
	for _, line := range cycles {
		rows = append(rows, []string{line})
	}

	rows = append(rows, []string{"Giver", "Receiver"})
	for _, p := range g.Participants {
		receiver := ""
		if id, ok := g.DrawResults[p.ID]; ok {
			receiver = g.NameOf(id)
		}
		rows = append(rows, []string{p.Name, receiver})
	}

	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}
