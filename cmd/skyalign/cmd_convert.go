package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"skyalign/internal/geodesy"
)

var convertReverse bool

var convertCmd = &cobra.Command{
	Use:   "convert [coordinate]",
	Short: "Convert between DMS and decimal coordinates",
	Long: `Converts a DMS coordinate string to the decimal 'lat,lon,elev' form used
everywhere else, or the reverse with --reverse. Reads from stdin when no
argument is given.

Examples:
  skyalign convert '41°02′38″N 111°56′45″W 1,331 m'
  skyalign convert --reverse 41.043889,-111.945833,1331`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().BoolVarP(&convertReverse, "reverse", "r", false, "Convert decimal to DMS instead")
}

func runConvert(cmd *cobra.Command, args []string) error {
	var input string
	if len(args) == 1 {
		input = args[0]
	} else {
		fmt.Fprint(os.Stderr, "Enter coordinate: ")
		sc := bufio.NewScanner(os.Stdin)
		if !sc.Scan() {
			return fmt.Errorf("no input: %w", sc.Err())
		}
		input = sc.Text()
	}
	input = strings.TrimSpace(input)

	if convertReverse {
		loc, err := geodesy.ParseLocation(input)
		if err != nil {
			return err
		}
		fmt.Println(geodesy.FormatDMS(loc))
		return nil
	}

	loc, err := geodesy.ParseDMS(input)
	if err != nil {
		return err
	}
	fmt.Println(loc)
	return nil
}
