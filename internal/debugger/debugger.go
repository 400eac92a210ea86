// Package debugger is an interactive step-through TUI for the simulator,
// built the way hejops-gone's cpu debugger is: a bubbletea Model that steps
// the machine one instruction per keypress and renders registers, flags,
// and a small memory window with lipgloss.
package debugger

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/oisee/intel8086/pkg/asm"
	"github.com/oisee/intel8086/pkg/cpu"
	"github.com/oisee/intel8086/pkg/isa"
	"github.com/oisee/intel8086/pkg/reg"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	regStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

type model struct {
	cpu       *cpu.CPU
	lastIns   isa.Instruction
	lastCycle int
	err       error
	finished  bool
}

// Run loads program and drives an interactive stepper over it until the
// user quits. It blocks for the duration of the TUI session.
func Run(program []byte) error {
	c := cpu.New()
	if err := c.SetProgram(program); err != nil {
		return err
	}
	m := model{cpu: c}
	_, err := tea.NewProgram(m).Run()
	return err
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ", "n", "j":
		if m.finished || m.err != nil {
			return m, nil
		}
		if m.cpu.Done() {
			m.finished = true
			return m, nil
		}
		ins, cost, err := m.cpu.Step()
		if err != nil {
			m.err = err
			return m, nil
		}
		m.lastIns = ins
		m.lastCycle = cost
	case "r":
		for !m.finished && m.err == nil {
			if m.cpu.Done() {
				m.finished = true
				break
			}
			ins, cost, err := m.cpu.Step()
			if err != nil {
				m.err = err
				break
			}
			m.lastIns = ins
			m.lastCycle = cost
		}
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("8086 step debugger"))
	b.WriteString("  (space/n: step, r: run, q: quit)\n\n")

	if m.lastIns.Len() > 0 {
		b.WriteString(fmt.Sprintf("last: %s  (%d cycles)\n\n", asm.Instruction(m.lastIns), m.lastCycle))
	}

	b.WriteString(regStyle.Render(m.registerLine()))
	b.WriteByte('\n')
	b.WriteString(regStyle.Render(m.byteRegisterLine()))
	b.WriteByte('\n')
	b.WriteString(dimStyle.Render(fmt.Sprintf("Z=%v S=%v", m.cpu.Flags.Z, m.cpu.Flags.S)))
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render(m.memoryWindow()))
	b.WriteByte('\n')

	if m.err != nil {
		b.WriteString(errStyle.Render("error: " + m.err.Error()))
		b.WriteByte('\n')
	}
	if m.finished {
		b.WriteString(dimStyle.Render("program finished"))
		b.WriteByte('\n')
	}
	return b.String()
}

func (m model) registerLine() string {
	names := []struct {
		id   reg.ID
		name string
	}{
		{reg.AX, "ax"}, {reg.CX, "cx"}, {reg.DX, "dx"}, {reg.BX, "bx"},
		{reg.SP, "sp"}, {reg.BP, "bp"}, {reg.SI, "si"}, {reg.DI, "di"}, {reg.IP, "ip"},
	}
	var parts []string
	for _, n := range names {
		parts = append(parts, fmt.Sprintf("%s=%04x", n.name, m.cpu.Register(n.id)))
	}
	return strings.Join(parts, " ")
}

func (m model) byteRegisterLine() string {
	names := []string{"al", "ah", "cl", "ch", "dl", "dh", "bl", "bh"}
	var parts []string
	for _, n := range names {
		r, _ := reg.ByName(n)
		parts = append(parts, fmt.Sprintf("%s=%02x", n, m.cpu.ReadOperandRegister(r)))
	}
	return strings.Join(parts, " ")
}

// memoryWindow hex-dumps four 16-byte rows starting at the paragraph IP
// falls in, so the bytes about to be decoded are always on screen.
func (m model) memoryWindow() string {
	const rows, cols = 4, 16
	mem := m.cpu.Memory()
	start := int(m.cpu.IP()) &^ (cols - 1)

	var b strings.Builder
	for r := 0; r < rows; r++ {
		off := start + r*cols
		if off >= len(mem) {
			break
		}
		if r > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(fmt.Sprintf("%05x ", off))
		for i := 0; i < cols; i++ {
			b.WriteString(fmt.Sprintf(" %02x", mem[off+i]))
		}
	}
	return b.String()
}
