package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CoolCerebralTech/mirathi-roadmap/internal/cli/formatter"
	"github.com/CoolCerebralTech/mirathi-roadmap/internal/domain"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Work with roadmap tasks",
	}
	cmd.AddCommand(
		newTaskStartCmd(app),
		newTaskCompleteCmd(app),
		newTaskSkipCmd(app),
		newTaskWaiveCmd(app),
		newTaskBlockCmd(app),
		newTaskUnblockCmd(app),
		newTaskReopenCmd(app),
	)
	return cmd
}

func printUnlocked(unlocked []string) {
	for _, id := range unlocked {
		fmt.Printf("%s task %s is now available\n", formatter.StyleGreen.Render("unlocked:"), id)
	}
}

func newTaskStartCmd(app *App) *cobra.Command {
	var actor string

	cmd := &cobra.Command{
		Use:   "start <roadmap-id> <task-id>",
		Short: "Start a pending task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Roadmaps.StartTask(context.Background(), args[0], args[1], actor); err != nil {
				return err
			}
			fmt.Println("Task started.")
			return nil
		},
	}
	cmd.Flags().StringVar(&actor, "actor", "", "Who starts the task")
	return cmd
}

func newTaskCompleteCmd(app *App) *cobra.Command {
	var actor, notes, proofRef string
	var proofType domain.ProofType

	cmd := &cobra.Command{
		Use:   "complete <roadmap-id> <task-id>",
		Short: "Complete a task, unlocking its dependents",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var proof *domain.ProofReference
			if proofType != "" || proofRef != "" {
				if proofType == "" || proofRef == "" {
					return fmt.Errorf("both --proof-type and --proof-ref are required when attaching proof")
				}
				proof = &domain.ProofReference{
					Type:      proofType,
					Reference: proofRef,
				}
			}

			unlocked, err := app.Roadmaps.CompleteTask(context.Background(), args[0], args[1], actor, notes, proof)
			if err != nil {
				return err
			}
			fmt.Println("Task completed.")
			printUnlocked(unlocked)
			return nil
		},
	}
	cmd.Flags().StringVar(&actor, "actor", "", "Who completes the task")
	cmd.Flags().StringVar(&notes, "notes", "", "Completion notes")
	cmd.Flags().Var(&proofTypeValue{v: &proofType}, "proof-type", "Proof type (document_upload, payment_receipt, court_stamp, affidavit, gazette_notice)")
	cmd.Flags().StringVar(&proofRef, "proof-ref", "", "Proof reference, such as a document ID")
	return cmd
}

func newTaskSkipCmd(app *App) *cobra.Command {
	var actor, reason string

	cmd := &cobra.Command{
		Use:   "skip <roadmap-id> <task-id>",
		Short: "Skip an optional task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			unlocked, err := app.Roadmaps.SkipTask(context.Background(), args[0], args[1], actor, reason)
			if err != nil {
				return err
			}
			fmt.Println("Task skipped.")
			printUnlocked(unlocked)
			return nil
		},
	}
	cmd.Flags().StringVar(&actor, "actor", "", "Who skips the task")
	cmd.Flags().StringVar(&reason, "reason", "", "Why the task is skipped")
	return cmd
}

func newTaskWaiveCmd(app *App) *cobra.Command {
	var actor, reason string

	cmd := &cobra.Command{
		Use:   "waive <roadmap-id> <task-id>",
		Short: "Waive a task by administrative decision",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			unlocked, err := app.Roadmaps.WaiveTask(context.Background(), args[0], args[1], actor, reason)
			if err != nil {
				return err
			}
			fmt.Println("Task waived.")
			printUnlocked(unlocked)
			return nil
		},
	}
	cmd.Flags().StringVar(&actor, "actor", "", "Who waives the task")
	cmd.Flags().StringVar(&reason, "reason", "", "Why the task is waived")
	return cmd
}

func newTaskBlockCmd(app *App) *cobra.Command {
	var actor, reason, riskID string

	cmd := &cobra.Command{
		Use:   "block <roadmap-id> <task-id>",
		Short: "Block an in-progress task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Roadmaps.BlockTask(context.Background(), args[0], args[1], actor, reason, riskID); err != nil {
				return err
			}
			fmt.Println("Task blocked.")
			return nil
		},
	}
	cmd.Flags().StringVar(&actor, "actor", "", "Who blocks the task")
	cmd.Flags().StringVar(&reason, "reason", "", "Why the task is blocked")
	cmd.Flags().StringVar(&riskID, "risk", "", "Risk ID causing the block")
	return cmd
}

func newTaskUnblockCmd(app *App) *cobra.Command {
	var actor string

	cmd := &cobra.Command{
		Use:   "unblock <roadmap-id> <task-id>",
		Short: "Return a blocked task to pending",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Roadmaps.UnblockTask(context.Background(), args[0], args[1], actor); err != nil {
				return err
			}
			fmt.Println("Task unblocked.")
			return nil
		},
	}
	cmd.Flags().StringVar(&actor, "actor", "", "Who unblocks the task")
	return cmd
}

func newTaskReopenCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reopen <roadmap-id> <task-id>",
		Short: "Reopen a completed or skipped task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Roadmaps.ReopenTask(context.Background(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Println("Task reopened. Previously unlocked dependents stay available.")
			return nil
		},
	}
}
