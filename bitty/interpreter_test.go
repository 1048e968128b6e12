package bitty_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/archsim/rv2bitty/bitty"
	"github.com/archsim/rv2bitty/mem"
)

var _ = Describe("Interpreter ALU execution", func() {
	It("adds two registers and writes d_out", func() {
		prog := []uint16{bitty.Encode(bitty.Instruction{Format: bitty.FormatR, Rx: 1, Ry: 2, Alu: bitty.AluAdd})}
		interp := bitty.NewInterpreter(prog, mem.New(16))
		interp.Regs().Write(1, 10)
		interp.Regs().Write(2, 32)
		interp.Step()
		Expect(interp.Regs().Read(1)).To(Equal(uint32(42)))
		Expect(interp.DOut()).To(Equal(uint32(42)))
	})

	It("leaves rx untouched for a compare op, writing only d_out", func() {
		prog := []uint16{bitty.Encode(bitty.Instruction{Format: bitty.FormatR, Rx: 1, Ry: 2, Alu: bitty.AluCmpS})}
		interp := bitty.NewInterpreter(prog, mem.New(16))
		interp.Regs().Write(1, 99)
		interp.Regs().Write(2, 5)
		interp.Step()
		Expect(interp.Regs().Read(1)).To(Equal(uint32(99)))
		Expect(interp.DOut()).To(Equal(uint32(1))) // 99 > 5
	})
})

var _ = Describe("Interpreter branch execution", func() {
	It("takes a branch when d_out matches cond", func() {
		cmp := bitty.Encode(bitty.Instruction{Format: bitty.FormatR, Rx: 1, Ry: 2, Alu: bitty.AluCmpS})
		br := bitty.Encode(bitty.Instruction{Format: bitty.FormatBranch, Cond: bitty.CondEqual, Imm: 4 << 1})
		prog := []uint16{cmp, br, 0, 0, 0, 0}
		interp := bitty.NewInterpreter(prog, mem.New(16))
		interp.Regs().Write(1, 5)
		interp.Regs().Write(2, 5)
		interp.Step() // compare => equal
		interp.Step() // branch
		Expect(interp.PC()).To(Equal(5))
	})

	It("falls through when d_out does not match cond", func() {
		cmp := bitty.Encode(bitty.Instruction{Format: bitty.FormatR, Rx: 1, Ry: 2, Alu: bitty.AluCmpS})
		br := bitty.Encode(bitty.Instruction{Format: bitty.FormatBranch, Cond: bitty.CondEqual, Imm: 4 << 1})
		prog := []uint16{cmp, br, 0, 0, 0}
		interp := bitty.NewInterpreter(prog, mem.New(16))
		interp.Regs().Write(1, 5)
		interp.Regs().Write(2, 6)
		interp.Step()
		interp.Step()
		Expect(interp.PC()).To(Equal(2))
	})
})

var _ = Describe("Interpreter PC control", func() {
	It("gtpc captures PC_B+1", func() {
		prog := []uint16{bitty.Encode(bitty.Instruction{Format: bitty.FormatBranch, Cond: bitty.CondPCCtrl, PCSet: false, Rx: 3})}
		interp := bitty.NewInterpreter(prog, mem.New(16))
		interp.Step()
		Expect(interp.Regs().Read(3)).To(Equal(uint32(1)))
	})

	It("stpc jumps to the register's index", func() {
		prog := []uint16{
			bitty.Encode(bitty.Instruction{Format: bitty.FormatBranch, Cond: bitty.CondPCCtrl, PCSet: true, Rx: 3}),
			0, 0,
		}
		interp := bitty.NewInterpreter(prog, mem.New(16))
		interp.Regs().Write(3, 2)
		interp.Step()
		Expect(interp.PC()).To(Equal(2))
	})
})

var _ = Describe("Interpreter load/store", func() {
	It("stores then loads back through shared memory", func() {
		st := bitty.Encode(bitty.Instruction{Format: bitty.FormatMemory, Rx: 1, Ry: 2, Store: true})
		ld := bitty.Encode(bitty.Instruction{Format: bitty.FormatMemory, Rx: 3, Ry: 2, Store: false})
		m := mem.New(16)
		interp := bitty.NewInterpreter([]uint16{st, ld}, m)
		interp.Regs().Write(1, 0xDEADBEEF)
		interp.Regs().Write(2, 4)
		interp.Step()
		interp.Step()
		Expect(interp.Regs().Read(3)).To(Equal(uint32(0xDEADBEEF)))
	})
})
