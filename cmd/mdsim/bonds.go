package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/san-kum/mdsim/internal/dynamo"
	"github.com/san-kum/mdsim/internal/interactors"
)

var duplicatePolicies = map[string]interactors.DuplicatePolicy{
	"skip":   interactors.DuplicateSkip,
	"reject": interactors.DuplicateReject,
	"allow":  interactors.DuplicateAllow,
}

// checkBonds builds the interactor for a bond file against an idle particle
// set, which runs every construction check including the index verification.
func checkBonds(cmd *cobra.Command, args []string) error {
	n, _ := cmd.Flags().GetInt("n")
	three, _ := cmd.Flags().GetBool("three")
	dup, _ := cmd.Flags().GetString("duplicates")

	policy, ok := duplicatePolicies[dup]
	if !ok {
		return fmt.Errorf("unknown duplicate policy: %s", dup)
	}
	opts := []interactors.Option{
		interactors.WithDuplicatePolicy(policy),
		interactors.WithLogger(dynamo.NewLogger("warn")),
	}

	if three {
		bonds, err := interactors.ReadThreeBondFile(args[0])
		if err != nil {
			return err
		}
		if n == 0 {
			for _, b := range bonds {
				n = max(n, b.I+1, b.J+1, b.K+1)
			}
		}
		tb, err := interactors.NewThreeBondedForces(dynamo.NewParticles(n), dynamo.Params{N: n}, bonds, opts...)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %d records, %d three-body terms over %d particles\n", args[0], len(bonds), tb.NumBonds(), n)
		return nil
	}

	bonds, err := interactors.ReadBondFile(args[0])
	if err != nil {
		return err
	}
	if n == 0 {
		for _, b := range bonds {
			n = max(n, b.I+1, b.J+1)
		}
	}
	bf, err := interactors.NewBondedForces(dynamo.NewParticles(n), dynamo.Params{N: n}, bonds, opts...)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d records, %d bonds over %d particles\n", args[0], len(bonds), bf.NumBonds(), n)
	return nil
}
