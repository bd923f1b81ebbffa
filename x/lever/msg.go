package lever

import (
	"github.com/iov-one/loom"
	"github.com/iov-one/loom/x/system"
)

// ProgramID of the lever program.
var ProgramID = loom.MustParseAddress("Lever11111111111111111111111111111111111111")

const (
	TagInitialize  uint8 = 0
	TagSwitchPower uint8 = 1
)

// InitializeArgs is the initial status of a new power account.
type InitializeArgs struct {
	IsOn bool
}

// SwitchPowerArgs names who pulls the lever.
type SwitchPowerArgs struct {
	Name string
}

// NewInitializeInstruction creates power, paid by user.
func NewInitializeInstruction(power, user loom.Address, isOn bool) loom.Instruction {
	return loom.Instruction{
		ProgramID: ProgramID,
		Accounts: []loom.AccountMeta{
			loom.Writable(power, true),
			loom.Writable(user, true),
			loom.ReadOnly(system.ProgramID, false),
		},
		Data: mustEncode(TagInitialize, InitializeArgs{IsOn: isOn}),
	}
}

func NewSwitchPowerInstruction(power loom.Address, name string) loom.Instruction {
	return loom.Instruction{
		ProgramID: ProgramID,
		Accounts:  []loom.AccountMeta{loom.Writable(power, false)},
		Data:      mustEncode(TagSwitchPower, SwitchPowerArgs{Name: name}),
	}
}

func mustEncode(tag uint8, args interface{}) []byte {
	data, err := loom.EncodeInstructionData(tag, args)
	if err != nil {
		panic(err)
	}
	return data
}
