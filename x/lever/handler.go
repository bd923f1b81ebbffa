package lever

import (
	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
	"github.com/iov-one/loom/x/system"
)

// Program is the lever program.
type Program struct{}

var _ loom.Program = Program{}

func (Program) Process(ctx loom.Context, host loom.Host, programID loom.Address, accounts []*loom.AccountInfo, data []byte) error {
	tag, payload, err := loom.SplitInstructionData(data)
	if err != nil {
		return err
	}
	switch tag {
	case TagInitialize:
		var args InitializeArgs
		if err := loom.DecodeInstructionArgs(payload, &args); err != nil {
			return err
		}
		return initialize(ctx, host, programID, accounts, args)
	case TagSwitchPower:
		var args SwitchPowerArgs
		if err := loom.DecodeInstructionArgs(payload, &args); err != nil {
			return err
		}
		return switchPower(ctx, programID, accounts, args.Name)
	default:
		return errors.Wrapf(errors.ErrInvalidInstruction, "unknown tag %d", tag)
	}
}

func initialize(ctx loom.Context, host loom.Host, programID loom.Address, accounts []*loom.AccountInfo, args InitializeArgs) error {
	c := loom.NewAccountCursor(accounts)
	power, err := c.Next()
	if err != nil {
		return err
	}
	user, err := c.Next()
	if err != nil {
		return err
	}
	if _, err := c.Next(); err != nil {
		return err
	}

	status := PowerStatus{IsOn: args.IsOn}
	raw, err := status.Marshal()
	if err != nil {
		return err
	}
	space := uint64(len(raw))
	create := system.NewCreateAccountInstruction(user.Key, power.Key, host.Rent().MinimumBalance(len(raw)), space, programID)
	if err := host.Invoke(ctx, create); err != nil {
		return errors.Wrap(err, "create power account")
	}
	return storeStatus(power, &status)
}

func switchPower(ctx loom.Context, programID loom.Address, accounts []*loom.AccountInfo, name string) error {
	c := loom.NewAccountCursor(accounts)
	power, err := c.Next()
	if err != nil {
		return err
	}
	status, err := loadStatus(power, programID)
	if err != nil {
		return err
	}
	status.IsOn = !status.IsOn
	if err := storeStatus(power, status); err != nil {
		return err
	}

	loom.Logf(ctx, "%s is pulling the power switch!", name)
	if status.IsOn {
		loom.Log(ctx, "The power is now on.")
	} else {
		loom.Log(ctx, "The power is now off!")
	}
	return nil
}
