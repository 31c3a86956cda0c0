package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"github.com/jonathan/career-matcher/internal/queue"
	"github.com/jonathan/career-matcher/internal/storage"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consume CV upload events and import them into profiles",
	Long: `Consume messages from the cv_uploads queue, download each CV from object storage,
merge it into the user's profile and publish the outcome to the cv_updates exchange.`,
	RunE: runWorker,
}

var (
	enqueueUser     string
	enqueueKey      string
	enqueueFilename string
)

var enqueueCmd = &cobra.Command{
	Use:   "enqueue-cv",
	Short: "Publish a CV import request to the upload queue",
	RunE:  runEnqueue,
}

func init() {
	enqueueCmd.Flags().StringVar(&enqueueUser, "user", "", "User ID (required)")
	enqueueCmd.Flags().StringVar(&enqueueKey, "key", "", "Object key of the uploaded CV (required)")
	enqueueCmd.Flags().StringVar(&enqueueFilename, "filename", "", "Original file name (defaults to the key's base name)")
	_ = enqueueCmd.MarkFlagRequired("user")
	_ = enqueueCmd.MarkFlagRequired("key")

	rootCmd.AddCommand(workerCmd)
	rootCmd.AddCommand(enqueueCmd)
}

func runWorker(cmd *cobra.Command, _ []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	defer func() { _ = rt.logger.Sync() }()
	if rt.cfg.AMQPURL == "" {
		return fmt.Errorf("AMQP_URL environment variable (or amqp_url config) is required")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := openBackend(ctx, rt)
	if err != nil {
		return err
	}
	defer b.Close()

	downloader, err := storage.New(ctx, storage.Config{
		Bucket:      rt.cfg.S3Bucket,
		Region:      rt.cfg.S3Region,
		Endpoint:    rt.cfg.S3Endpoint,
		R2AccountID: rt.cfg.R2AccountID,
		AccessKey:   rt.cfg.S3AccessKey,
		SecretKey:   rt.cfg.S3SecretKey,
	}, rt.logger)
	if err != nil {
		return fmt.Errorf("failed to create storage client: %w", err)
	}

	conn, err := amqp.Dial(rt.cfg.AMQPURL)
	if err != nil {
		return fmt.Errorf("error dialling rabbitmq: %w", err)
	}
	defer conn.Close()

	publisher, err := queue.NewAMQPPublisher(conn)
	if err != nil {
		return err
	}

	handler := queue.NewHandler(b.svc, downloader, publisher, rt.logger)
	consumer := queue.NewConsumer(conn, handler, rt.cfg.ImportWorkers, rt.logger)

	rt.logger.Info("import worker pool starting", zap.Int("workers", rt.cfg.ImportWorkers))
	return consumer.Run(ctx)
}

func runEnqueue(cmd *cobra.Command, _ []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	if rt.cfg.AMQPURL == "" {
		return fmt.Errorf("AMQP_URL environment variable (or amqp_url config) is required")
	}
	userID, err := uuid.Parse(enqueueUser)
	if err != nil {
		return fmt.Errorf("invalid --user: %w", err)
	}

	conn, err := amqp.Dial(rt.cfg.AMQPURL)
	if err != nil {
		return fmt.Errorf("error dialling rabbitmq: %w", err)
	}
	defer conn.Close()

	msg := queue.ImportMessage{UserID: userID, ObjectKey: enqueueKey, Filename: enqueueFilename}
	if err := queue.Enqueue(conn, msg); err != nil {
		return fmt.Errorf("failed to enqueue import: %w", err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Enqueued %s for user %s\n", enqueueKey, userID)
	return nil
}
