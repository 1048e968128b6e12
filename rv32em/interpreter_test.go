package rv32em_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/archsim/rv2bitty/diag"
	"github.com/archsim/rv2bitty/mem"
	"github.com/archsim/rv2bitty/rv32em"
	"github.com/archsim/rv2bitty/simerr"
)

var _ = Describe("Interpreter", func() {
	It("halts cleanly once the step cap is reached", func() {
		nop := encodeI(0, 0, 0b000, 0, 0b0010011) // ADDI x0, x0, 0
		prog := []uint32{nop, nop, nop, nop}
		interp := rv32em.NewInterpreter(prog, mem.New(16), rv32em.WithStepCap(2))

		err := interp.Run()
		Expect(err).To(MatchError(simerr.ErrStepLimitExceeded))
		Expect(interp.Halted()).To(BeTrue())
	})

	It("logs and skips an unrecognized instruction word, still advancing PC", func() {
		log := diag.New(nil)
		prog := []uint32{0x7F, 0x7F}
		interp := rv32em.NewInterpreter(prog, mem.New(16), rv32em.WithDiagLog(log), rv32em.WithStepCap(2))
		interp.Run()
		// Two unknown-opcode events, then the step-cap halt records a third.
		Expect(log.Len()).To(Equal(3))
		Expect(log.Events()[0].Err).To(MatchError(simerr.ErrUnknownOpcode))
	})

	It("rejects an operand register above x15 and still advances", func() {
		log := diag.New(nil)
		w := encodeR(0, 17, 2, 0b000, 1, 0b0110011) // rs2 = x17, out of range
		interp := rv32em.NewInterpreter([]uint32{w}, mem.New(16), rv32em.WithDiagLog(log), rv32em.WithStepCap(1))
		interp.Run()
		// The register event, then the step-cap halt records a second.
		Expect(log.Len()).To(Equal(2))
		Expect(log.Events()[0].Err).To(MatchError(simerr.ErrRegisterOutOfRange))
	})

	It("wraps an out-of-range jump target when tolerant (the default)", func() {
		// JAL x1, a target far beyond the 2-instruction program.
		imm10_1 := uint32(50) & 0x3FF
		word := imm10_1<<21 | 1<<7 | 0b1101111
		interp := rv32em.NewInterpreter([]uint32{word, word}, mem.New(16))
		interp.Step()
		Expect(interp.PC()).To(BeNumerically(">=", 0))
		Expect(interp.PC()).To(BeNumerically("<", 2))
	})

	It("halts on an out-of-range jump target in strict PC mode", func() {
		imm10_1 := uint32(50) & 0x3FF
		word := imm10_1<<21 | 1<<7 | 0b1101111
		interp := rv32em.NewInterpreter([]uint32{word, word}, mem.New(16), rv32em.WithTolerantPC(false))
		interp.Step()
		Expect(interp.Halted()).To(BeTrue())
	})
})
