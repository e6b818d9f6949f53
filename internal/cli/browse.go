package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/pedkit/pedkit/pkg/pedio"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// newBrowseCmd creates the browse command: an interactive pedigree browser.
func newBrowseCmd() *cobra.Command {
	opts := pedOpts{}

	cmd := &cobra.Command{
		Use:   "browse <pedfile>",
		Short: "Browse pedigrees interactively",
		Long: `Browse the pedigrees of a processed file in an interactive terminal
view. The list shows each pedigree's structure; selecting one shows its
members with their sequence numbers, parents, and generations.

Examples:
  pedkit browse study.ped --layout layout.toml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := opts.newRunner(ctx)
			if err != nil {
				return err
			}
			defer runner.Cache.Close()

			popts := opts.pipelineOptions(ctx, args[0])
			popts.SkipKinship = true

			result, err := runner.Execute(ctx, popts)
			if err != nil {
				return err
			}

			m := newBrowseModel(result.Model, result.Summary)
			_, err = tea.NewProgram(m, tea.WithContext(ctx)).Run()
			return err
		},
	}

	addPedFlags(cmd, &opts)
	return cmd
}

// browseModel is the bubbletea model for the pedigree browser.
type browseModel struct {
	model   *pedio.Model
	summary *pedio.Summary

	cursor   int
	offset   int
	height   int
	detail   bool // showing the selected pedigree's members
	memberAt int  // scroll offset inside the detail view
}

func newBrowseModel(model *pedio.Model, summary *pedio.Summary) browseModel {
	return browseModel{model: model, summary: summary, height: 15}
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.detail {
				m.detail = false
				m.memberAt = 0
				return m, nil
			}
			return m, tea.Quit
		case "up", "k":
			if m.detail {
				if m.memberAt > 0 {
					m.memberAt--
				}
			} else if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.detail {
				if m.memberAt < len(m.members())-m.height {
					m.memberAt++
				}
			} else if m.cursor < len(m.summary.Pedigrees)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "enter":
			if !m.detail {
				m.detail = true
				m.memberAt = 0
			}
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 8
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

// members returns the individuals of the pedigree under the cursor.
func (m browseModel) members() []pedio.Individual {
	var out []pedio.Individual
	for _, in := range m.model.Individuals {
		if in.Ped == m.cursor+1 {
			out = append(out, in)
		}
	}
	return out
}

func (m browseModel) View() string {
	if m.detail {
		return m.detailView()
	}
	return m.listView()
}

func (m browseModel) listView() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Pedigrees"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ members  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.summary.Pedigrees) {
		end = len(m.summary.Pedigrees)
	}

	rows := [][]string{}
	for i := m.offset; i < end; i++ {
		p := m.summary.Pedigrees[i]

		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}

		loops := "—"
		if p.HasLoops {
			loops = fmt.Sprintf("%d breaker(s)", p.NBreakers)
		}
		inbred := ""
		if p.Inbred {
			inbred = "yes"
		}

		rows = append(rows, []string{
			cursor,
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%d", p.NInd),
			fmt.Sprintf("%d", p.NFam),
			fmt.Sprintf("%d", p.NFou),
			loops,
			inbred,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Ped", "Inds", "Fams", "Founders", "Loops", "Inbred").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.offset+row == m.cursor {
				return listSelectedStyle
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.summary.Pedigrees))))

	return b.String()
}

func (m browseModel) detailView() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("Pedigree %d", m.cursor+1)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ scroll  esc back  q quit"))
	b.WriteString("\n\n")

	members := m.members()
	end := m.memberAt + m.height
	if end > len(members) {
		end = len(members)
	}

	rows := [][]string{}
	for _, in := range members[m.memberAt:end] {
		fa, mo := "—", "—"
		if in.FaSeq > 0 {
			fa = fmt.Sprintf("%d", in.FaSeq)
			mo = fmt.Sprintf("%d", in.MoSeq)
		}
		twin := ""
		if in.Twin > 0 {
			twin = fmt.Sprintf("%d", in.Twin)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", in.Seq),
			in.ID,
			in.Sex,
			fa,
			mo,
			fmt.Sprintf("%d", in.Gen),
			twin,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Seq", "ID", "Sex", "Father", "Mother", "Gen", "Twin").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d member(s)", len(members))))

	return b.String()
}
