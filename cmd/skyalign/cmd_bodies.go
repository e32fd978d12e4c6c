package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"skyalign/internal/ephemeris"
)

var bodiesCmd = &cobra.Command{
	Use:   "bodies",
	Short: "List the celestial bodies skyalign can compute",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, b := range ephemeris.Bodies() {
			fmt.Println(b)
		}
		return nil
	},
}
