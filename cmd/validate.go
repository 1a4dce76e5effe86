package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/apagar/certo/internal/bank"
)

var validateCmd = &cobra.Command{
	Use:   "validate [bank.json]",
	Short: "Validate a question bank file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var path string
		if len(args) == 1 {
			path = args[0]
		} else {
			var err error
			path, err = resolveBankPath(cmd)
			if err != nil {
				return err
			}
		}

		b, err := bank.NewStore().LoadFile(path)
		if err != nil {
			var verr *bank.ValidationError
			if errors.As(err, &verr) {
				return fmt.Errorf("%s: %w", path, verr)
			}
			return err
		}

		fmt.Printf("%s: OK\n", path)
		fmt.Printf("  %s\n", b.Info.Title)
		fmt.Printf("  %d questions, %d topics\n", b.Len(), len(b.Topics()))
		return nil
	},
}
