package money

import (
	"fmt"
	"strconv"
	"strings"
)

// CreditMode selects how a credited amount is distributed.
type CreditMode string

const (
	// CreditSplit divides the amount among the active players.
	CreditSplit CreditMode = "split"
	// CreditEach gives the full amount to every active player.
	CreditEach CreditMode = "each"
	// CreditNamed gives the full amount to one named player or actor.
	CreditNamed CreditMode = "name"
)

// CreditCommand is a parsed credit command.
type CreditCommand struct {
	Amount Amount
	Mode   CreditMode
	Target string
}

// ParsePayCommand parses "amount[@region[@strict]]".
// The strict flag accepts any value strconv.ParseBool understands.
//
// Postcondition: returns an error wrapping ErrInvalidAmountFormat on malformed input.
func ParsePayCommand(cmd string) (PaymentRequest, error) {
	parts := strings.Split(strings.TrimSpace(cmd), "@")
	if len(parts) > 3 {
		return PaymentRequest{}, fmt.Errorf("%w: too many @ separators in %q", ErrInvalidAmountFormat, cmd)
	}
	amount, err := ParseAmount(parts[0])
	if err != nil {
		return PaymentRequest{}, err
	}
	req := PaymentRequest{Amount: amount}
	if len(parts) > 1 {
		req.RegionKey = strings.TrimSpace(parts[1])
	}
	if len(parts) > 2 {
		strict, err := strconv.ParseBool(strings.TrimSpace(parts[2]))
		if err != nil {
			return PaymentRequest{}, fmt.Errorf("%w: strict flag %q", ErrInvalidAmountFormat, parts[2])
		}
		req.Strict = strict
	}
	return req, nil
}

// ParseCreditCommand parses "amount [split|each|<name>]". The trailing word
// is treated as an option only when it does not itself parse as part of the
// amount; the default mode is split.
func ParseCreditCommand(args string) (CreditCommand, error) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return CreditCommand{}, fmt.Errorf("%w: empty credit", ErrInvalidAmountFormat)
	}

	cmd := CreditCommand{Mode: CreditSplit}
	last := fields[len(fields)-1]
	if len(fields) > 1 {
		if _, err := ParseAmount(last); err != nil {
			fields = fields[:len(fields)-1]
			switch strings.ToLower(last) {
			case string(CreditSplit):
			case string(CreditEach):
				cmd.Mode = CreditEach
			default:
				cmd.Mode = CreditNamed
				cmd.Target = last
			}
		}
	}

	amount, err := ParseAmount(strings.Join(fields, " "))
	if err != nil {
		return CreditCommand{}, err
	}
	cmd.Amount = amount
	return cmd, nil
}
