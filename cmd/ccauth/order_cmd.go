package main

import (
	"encoding/json"

	"github.com/AmmannChristian/go-ccauth/checkout"
	"github.com/AmmannChristian/go-ccauth/httpclient"
	"github.com/spf13/cobra"
)

func newOrderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Inspect checkout orders using a fresh access token",
	}
	cmd.AddCommand(newOrderGetCommand())
	return cmd
}

func newOrderGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <order-id>",
		Short: "Print the details of an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			rt, err := s.startToken(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer rt.Shutdown()

			api, err := httpclient.NewBuilder().
				WithTokenProvider(rt).
				WithCAFile(s.cfg.CAFile).
				WithTimeout(s.cfg.Timeout).
				Build()
			if err != nil {
				return err
			}

			order, err := checkout.NewClient(s.cfg.BaseURL, api).GetOrder(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(order)
		},
	}
}
