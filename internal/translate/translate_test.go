package translate_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Samir-Rashid/binary-room/internal/arm"
	"github.com/Samir-Rashid/binary-room/internal/config"
	"github.com/Samir-Rashid/binary-room/internal/options"
	"github.com/Samir-Rashid/binary-room/internal/riscv"
	"github.com/Samir-Rashid/binary-room/internal/translate"
)

var _ = Describe("Translator", func() {
	var tr *translate.Translator

	BeforeEach(func() {
		logger := config.CreateLogger(false, true)
		tr = translate.New(logger, options.NewTranslator())
	})

	translateOne := func(ins riscv.Instruction) arm.Instruction {
		out, err := tr.Instruction(ins)
		Expect(err).ToNot(HaveOccurred())
		Expect(out).To(HaveLen(1))
		return out[0]
	}

	Describe("register mapping", func() {
		It("maps the argument registers onto the AArch64 argument registers", func() {
			for i, src := range []riscv.Register{
				riscv.A0, riscv.A1, riscv.A2, riscv.A3,
				riscv.A4, riscv.A5, riscv.A6,
			} {
				out := translateOne(riscv.Instruction{
					Op: riscv.OpMv, Dest: src, Src: src,
				})
				Expect(out.Dest).To(Equal(arm.Reg(arm.RegisterName(int(arm.X0) + i))))
			}
		})

		It("maps the syscall number register a7 to x8", func() {
			out := translateOne(riscv.Instruction{
				Op: riscv.OpMv, Dest: riscv.A7, Src: riscv.A0,
			})
			Expect(out.Dest).To(Equal(arm.Reg(arm.X8)))
		})

		It("maps sp to sp and ra to the link register", func() {
			out := translateOne(riscv.Instruction{
				Op: riscv.OpMv, Dest: riscv.SP, Src: riscv.RA,
			})
			Expect(out.Dest).To(Equal(arm.Reg(arm.SP)))
			Expect(out.Arg1).To(Equal(arm.Reg(arm.Lr)))
		})

		It("maps the frame pointer s0 to x29", func() {
			out := translateOne(riscv.Instruction{
				Op: riscv.OpMv, Dest: riscv.S0, Src: riscv.S0,
			})
			Expect(out.Dest).To(Equal(arm.Reg(arm.X29)))
		})

		It("maps the zero register to xzr", func() {
			out := translateOne(riscv.Instruction{
				Op:   riscv.OpAdd,
				Dest: riscv.A0, Arg1: riscv.A0, Arg2: riscv.X0,
			})
			Expect(out.Arg2).To(Equal(arm.RegisterVal(arm.Reg(arm.Zero))))
		})
	})

	Describe("add immediate", func() {
		It("lowers a positive immediate to add", func() {
			out := translateOne(riscv.Instruction{
				Op: riscv.OpAddi, Dest: riscv.A0, Src: riscv.A1, Imm: 4,
			})
			Expect(out.Op).To(Equal(arm.OpAdd))
			Expect(out.Arg2).To(Equal(arm.ImmediateVal(4)))
		})

		It("lowers a negative immediate to sub with the negated immediate", func() {
			out := translateOne(riscv.Instruction{
				Op: riscv.OpAddi, Dest: riscv.SP, Src: riscv.SP, Imm: -32,
			})
			Expect(out.Op).To(Equal(arm.OpSub))
			Expect(out.Arg2).To(Equal(arm.ImmediateVal(32)))
		})

		It("lowers a zero immediate to add", func() {
			out := translateOne(riscv.Instruction{
				Op: riscv.OpAddi, Dest: riscv.A0, Src: riscv.A1, Imm: 0,
			})
			Expect(out.Op).To(Equal(arm.OpAdd))
			Expect(out.Arg2).To(Equal(arm.ImmediateVal(0)))
		})

		It("treats addi from the zero register as load immediate", func() {
			addi := translateOne(riscv.Instruction{
				Op: riscv.OpAddi, Dest: riscv.A0, Src: riscv.X0, Imm: 7,
			})
			li := translateOne(riscv.Instruction{
				Op: riscv.OpLi, Dest: riscv.A0, Imm: 7,
			})
			Expect(addi).To(Equal(li))
			Expect(addi.Op).To(Equal(arm.OpMov))
		})
	})

	Describe("load immediate", func() {
		It("lowers li to mov", func() {
			out := translateOne(riscv.Instruction{
				Op: riscv.OpLi, Dest: riscv.A0, Imm: 93,
			})
			Expect(out.Op).To(Equal(arm.OpMov))
			Expect(out.Dest).To(Equal(arm.Reg(arm.X0)))
			Expect(out.Arg2).To(Equal(arm.ImmediateVal(93)))
		})

		It("accepts the immediate range bounds", func() {
			for _, imm := range []int32{4095, -4095} {
				out := translateOne(riscv.Instruction{
					Op: riscv.OpLi, Dest: riscv.T0, Imm: imm,
				})
				Expect(out.Arg2).To(Equal(arm.ImmediateVal(imm)))
			}
		})

		It("rejects an immediate above the encodable range", func() {
			_, err := tr.Instruction(riscv.Instruction{
				Op: riscv.OpLi, Dest: riscv.A0, Imm: 4096,
			})
			Expect(err).To(MatchError(translate.ErrImmediateOutOfRange))
		})

		It("rejects an immediate below the encodable range", func() {
			_, err := tr.Instruction(riscv.Instruction{
				Op: riscv.OpLi, Dest: riscv.A0, Imm: -4096,
			})
			Expect(err).To(MatchError(translate.ErrImmediateOutOfRange))
		})
	})

	Describe("syscall number remapping", func() {
		It("remaps a known syscall number loaded into a7", func() {
			out := translateOne(riscv.Instruction{
				Op: riscv.OpLi, Dest: riscv.A7, Imm: 64,
			})
			Expect(out.Dest).To(Equal(arm.Reg(arm.X8)))
			Expect(out.Arg2).To(Equal(arm.ImmediateVal(64)))
		})

		It("passes an unknown number through unchanged", func() {
			out := translateOne(riscv.Instruction{
				Op: riscv.OpLi, Dest: riscv.A7, Imm: 1000,
			})
			Expect(out.Arg2).To(Equal(arm.ImmediateVal(1000)))
		})

		It("leaves loads into other registers alone", func() {
			out := translateOne(riscv.Instruction{
				Op: riscv.OpLi, Dest: riscv.A0, Imm: 64,
			})
			Expect(out.Arg2).To(Equal(arm.ImmediateVal(64)))
		})

		It("can be disabled", func() {
			logger := config.CreateLogger(false, true)
			noRemap := translate.New(logger, options.Translator{SyscallRemap: false})

			out, err := noRemap.Instruction(riscv.Instruction{
				Op: riscv.OpLi, Dest: riscv.A7, Imm: 64,
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(out[0].Arg2).To(Equal(arm.ImmediateVal(64)))
		})
	})

	Describe("register arithmetic", func() {
		It("lowers double width add to the 64 bit register form", func() {
			out := translateOne(riscv.Instruction{
				Op: riscv.OpAdd, Width: riscv.Double,
				Dest: riscv.A0, Arg1: riscv.A1, Arg2: riscv.A2,
			})
			Expect(out.Op).To(Equal(arm.OpAdd))
			Expect(out.Dest).To(Equal(arm.Reg(arm.X0)))
			Expect(out.Arg1).To(Equal(arm.Reg(arm.X1)))
			Expect(out.Arg2).To(Equal(arm.RegisterVal(arm.Reg(arm.X2))))
		})

		It("lowers word width add to the 32 bit register form", func() {
			out := translateOne(riscv.Instruction{
				Op: riscv.OpAdd, Width: riscv.Word,
				Dest: riscv.A0, Arg1: riscv.A1, Arg2: riscv.A2,
			})
			Expect(out.Dest).To(Equal(arm.WReg(arm.X0)))
			Expect(out.Arg2).To(Equal(arm.RegisterVal(arm.WReg(arm.X2))))
		})

		It("lowers sub symmetrically to add", func() {
			out := translateOne(riscv.Instruction{
				Op: riscv.OpSub, Width: riscv.Word,
				Dest: riscv.T0, Arg1: riscv.T1, Arg2: riscv.T2,
			})
			Expect(out.Op).To(Equal(arm.OpSub))
			Expect(out.Dest).To(Equal(arm.WReg(arm.X10)))
		})
	})

	Describe("loads and stores", func() {
		It("keeps the double access width", func() {
			out := translateOne(riscv.Instruction{
				Op: riscv.OpStore, Width: riscv.Double, Src: riscv.RA,
				Val: riscv.RegOffsetVal(riscv.SP, 8),
			})
			Expect(out.Op).To(Equal(arm.OpStr))
			Expect(out.Src).To(Equal(arm.Reg(arm.Lr)))
			Expect(out.Arg2).To(Equal(arm.RegOffsetVal(arm.Reg(arm.SP), 8)))
		})

		It("keeps the word access width", func() {
			out := translateOne(riscv.Instruction{
				Op: riscv.OpLoad, Width: riscv.Word, Dest: riscv.A0,
				Val: riscv.RegOffsetVal(riscv.A1, 0),
			})
			Expect(out.Op).To(Equal(arm.OpLdr))
			Expect(out.Dest).To(Equal(arm.WReg(arm.X0)))
		})
	})

	Describe("control flow", func() {
		It("lowers ble against the zero register", func() {
			out := translateOne(riscv.Instruction{
				Op: riscv.OpBle, Arg1: riscv.A3, Arg2: riscv.X0,
				Val: riscv.LabelVal(".end", riscv.RelocNone),
			})
			Expect(out.Op).To(Equal(arm.OpBCond))
			Expect(out.Cond).To(Equal(arm.CondLE))
			Expect(out.Arg1).To(Equal(arm.Reg(arm.X3)))
			Expect(out.Arg2).To(Equal(arm.RegisterVal(arm.Reg(arm.Zero))))
			Expect(out.Target).To(Equal(arm.LabelVal(".end", arm.RelocNone)))
		})

		It("picks the matching condition for each branch", func() {
			conds := map[riscv.Op]arm.Cond{
				riscv.OpBge: arm.CondGE,
				riscv.OpBlt: arm.CondLT,
				riscv.OpBgt: arm.CondGT,
				riscv.OpBne: arm.CondNE,
			}
			for op, cond := range conds {
				out := translateOne(riscv.Instruction{
					Op: op, Arg1: riscv.A0, Arg2: riscv.A1,
					Val: riscv.LabelVal(".loop", riscv.RelocNone),
				})
				Expect(out.Cond).To(Equal(cond))
			}
		})

		It("lowers j to an unconditional branch", func() {
			out := translateOne(riscv.Instruction{
				Op:  riscv.OpJ,
				Val: riscv.LabelVal(".loop", riscv.RelocNone),
			})
			Expect(out.Op).To(Equal(arm.OpB))
			Expect(out.Target).To(Equal(arm.LabelVal(".loop", arm.RelocNone)))
		})

		It("lowers call to a branch with link", func() {
			out := translateOne(riscv.Instruction{
				Op:  riscv.OpCall,
				Val: riscv.LabelVal("print", riscv.RelocNone),
			})
			Expect(out.Op).To(Equal(arm.OpBl))
		})

		It("lowers jr to a register branch with link", func() {
			out := translateOne(riscv.Instruction{
				Op: riscv.OpJr, Src: riscv.A5,
			})
			Expect(out.Op).To(Equal(arm.OpBlr))
			Expect(out.Src).To(Equal(arm.Reg(arm.X5)))
		})

		It("keeps numeric branch targets numeric", func() {
			out := translateOne(riscv.Instruction{
				Op: riscv.OpBne, Arg1: riscv.A0, Arg2: riscv.A1,
				Val: riscv.ImmediateVal(0x100e6),
			})
			Expect(out.Target).To(Equal(arm.ImmediateVal(0x100e6)))
		})
	})

	Describe("address materialization", func() {
		It("lowers lui to adrp with the page relocation", func() {
			out := translateOne(riscv.Instruction{
				Op: riscv.OpLui, Dest: riscv.A1,
				Val: riscv.LabelVal("buf", riscv.RelocHi),
			})
			Expect(out.Op).To(Equal(arm.OpAdrp))
			Expect(out.Arg2).To(Equal(arm.LabelVal("buf", arm.RelocHi)))
		})

		It("lowers the low part add with the page offset relocation", func() {
			out := translateOne(riscv.Instruction{
				Op: riscv.OpAddl, Dest: riscv.A1, Src: riscv.A1,
				Val: riscv.LabelVal("buf", riscv.RelocLo),
			})
			Expect(out.Op).To(Equal(arm.OpAdd))
			Expect(out.Arg2).To(Equal(arm.LabelVal("buf", arm.RelocLo)))
		})
	})

	Describe("remaining instructions", func() {
		It("lowers mv to add with a zero immediate", func() {
			out := translateOne(riscv.Instruction{
				Op: riscv.OpMv, Dest: riscv.A0, Src: riscv.A1,
			})
			Expect(out.Op).To(Equal(arm.OpAdd))
			Expect(out.Arg1).To(Equal(arm.Reg(arm.X1)))
			Expect(out.Arg2).To(Equal(arm.ImmediateVal(0)))
		})

		It("lowers sext.w to sxtw with mixed widths", func() {
			out := translateOne(riscv.Instruction{
				Op: riscv.OpSextW, Dest: riscv.A0, Src: riscv.A0,
			})
			Expect(out.Op).To(Equal(arm.OpSxtw))
			Expect(out.Dest).To(Equal(arm.Reg(arm.X0)))
			Expect(out.Src).To(Equal(arm.WReg(arm.X0)))
		})

		It("lowers slli to lsl", func() {
			out := translateOne(riscv.Instruction{
				Op: riscv.OpSlli, Dest: riscv.A0, Src: riscv.A0, Imm: 3,
			})
			Expect(out.Op).To(Equal(arm.OpLsl))
			Expect(out.Arg2).To(Equal(arm.ImmediateVal(3)))
		})

		It("lowers ecall to svc 0", func() {
			out := translateOne(riscv.Instruction{Op: riscv.OpECall})
			Expect(out.Op).To(Equal(arm.OpSvc))
			Expect(out.Imm).To(Equal(int32(0)))
		})
	})

	Describe("passthrough", func() {
		It("keeps labels", func() {
			out := translateOne(riscv.Instruction{
				Op: riscv.OpLabel, Text: "_start",
			})
			Expect(out).To(Equal(arm.Instruction{Op: arm.OpLabel, Text: "_start"}))
		})

		It("rewrites directive type annotations", func() {
			out := translateOne(riscv.Instruction{
				Op: riscv.OpDirective, Text: "type", Operands: "main, @function",
			})
			Expect(out.Operands).To(Equal("main, %function"))
		})

		It("keeps other directive operands", func() {
			out := translateOne(riscv.Instruction{
				Op: riscv.OpDirective, Text: "globl", Operands: "_start",
			})
			Expect(out).To(Equal(arm.Instruction{
				Op: arm.OpDirective, Text: "globl", Operands: "_start",
			}))
		})

		It("keeps verbatim lines byte for byte", func() {
			out := translateOne(riscv.Instruction{
				Op: riscv.OpVerbatim, Text: "\t.word 0x6c6c6548",
			})
			Expect(out).To(Equal(arm.Instruction{
				Op: arm.OpVerbatim, Text: "\t.word 0x6c6c6548",
			}))
		})
	})

	Describe("Program", func() {
		It("keeps instruction order", func() {
			out, err := tr.Program([]riscv.Instruction{
				{Op: riscv.OpLabel, Text: ".loop"},
				{Op: riscv.OpAddi, Dest: riscv.A3, Src: riscv.A3, Imm: -1},
				{Op: riscv.OpBle, Arg1: riscv.A3, Arg2: riscv.X0,
					Val: riscv.LabelVal(".end", riscv.RelocNone)},
				{Op: riscv.OpJ, Val: riscv.LabelVal(".loop", riscv.RelocNone)},
				{Op: riscv.OpLabel, Text: ".end"},
				{Op: riscv.OpECall},
			})
			Expect(err).ToNot(HaveOccurred())

			Expect(out).To(HaveLen(6))
			Expect(out[0].Op).To(Equal(arm.OpLabel))
			Expect(out[1].Op).To(Equal(arm.OpSub))
			Expect(out[2].Op).To(Equal(arm.OpBCond))
			Expect(out[3].Op).To(Equal(arm.OpB))
			Expect(out[4].Op).To(Equal(arm.OpLabel))
			Expect(out[5].Op).To(Equal(arm.OpSvc))
		})

		It("returns no partial output on failure", func() {
			out, err := tr.Program([]riscv.Instruction{
				{Op: riscv.OpLi, Dest: riscv.A0, Imm: 1},
				{Op: riscv.OpLi, Dest: riscv.A1, Imm: 100000},
			})
			Expect(err).To(MatchError(translate.ErrImmediateOutOfRange))
			Expect(out).To(BeNil())
		})
	})
})
