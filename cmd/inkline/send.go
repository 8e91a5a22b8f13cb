package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/go-go-golems/inkline/pkg/attachments"
	"github.com/go-go-golems/inkline/pkg/chain"
	"github.com/go-go-golems/inkline/pkg/exchange"
	"github.com/go-go-golems/inkline/pkg/payloads"
	"github.com/go-go-golems/inkline/pkg/settings"
	"github.com/go-go-golems/inkline/pkg/turns"
)

func newSendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send one branch of a conversation document",
		RunE:  runSend,
	}
	cmd.Flags().String("document", "", "conversation document (JSON)")
	cmd.Flags().String("leaf", "", "id of the node to send")
	cmd.Flags().String("attachments-dir", "", "directory serving attachment storage keys")
	cmd.Flags().String("payloads-db", "", "bolt database for request/reply payloads")
	_ = cmd.MarkFlagRequired("document")
	_ = cmd.MarkFlagRequired("leaf")
	return cmd
}

func runSend(cmd *cobra.Command, args []string) error {
	docPath, _ := cmd.Flags().GetString("document")
	leafID, _ := cmd.Flags().GetString("leaf")
	attachmentsDir, _ := cmd.Flags().GetString("attachments-dir")
	payloadsDB, _ := cmd.Flags().GetString("payloads-db")

	doc, err := chain.LoadDocument(docPath)
	if err != nil {
		return errors.Wrapf(err, "load document %s", docPath)
	}
	arena := chain.NewArena(doc.Nodes)

	var blobs attachments.Store = attachments.NewMemStore()
	if attachmentsDir != "" {
		blobs = attachments.NewDirStore(attachmentsDir)
	}

	var pay payloads.Store = payloads.NewMemStore()
	if payloadsDB != "" {
		bolt, err := payloads.OpenBolt(payloadsDB)
		if err != nil {
			return errors.Wrapf(err, "open payload store %s", payloadsDB)
		}
		defer func() {
			_ = bolt.Close()
		}()
		pay = bolt
	}

	st := settings.NewFromViper()
	if viper.GetString("model") == "" {
		return errors.New("no model configured")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	ex := exchange.NewExchanger(st, blobs, pay)
	res := ex.Send(ctx, arena, doc.ChatID, leafID, func(delta, _ string) {
		fmt.Print(delta)
	})
	fmt.Println()

	switch res.Status {
	case exchange.StatusSuccess:
		replyID := uuid.NewString()
		doc.Nodes = append(doc.Nodes, chain.Node{
			ID:             replyID,
			ParentID:       leafID,
			Kind:           chain.NodeKindText,
			Author:         turns.RoleAssistant,
			Content:        res.Message.Text,
			RawResponseKey: exchange.ResponseKey(doc.ChatID, leafID),
		})
		if err := doc.Save(docPath); err != nil {
			return errors.Wrapf(err, "save document %s", docPath)
		}
		log.Info().Str("reply_id", replyID).Msg("exchange completed")
		return nil
	case exchange.StatusCancelled:
		if res.PartialText != "" {
			log.Info().Int("chars", len(res.PartialText)).Msg("cancelled, partial reply kept")
		}
		return errors.New("cancelled")
	default:
		if res.PartialText != "" {
			log.Warn().Int("chars", len(res.PartialText)).Msg("failed after partial reply")
		}
		return res.Err
	}
}
