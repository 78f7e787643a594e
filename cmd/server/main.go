package main

import (
	"github.com/skbarnwal/gst-invoice-service/internal/config"
	"github.com/skbarnwal/gst-invoice-service/internal/handler"
	"github.com/skbarnwal/gst-invoice-service/internal/logger"
	"github.com/skbarnwal/gst-invoice-service/internal/renderapi"
	"github.com/skbarnwal/gst-invoice-service/internal/repository"
	"github.com/skbarnwal/gst-invoice-service/internal/server"
	"github.com/skbarnwal/gst-invoice-service/internal/service"
	"github.com/skbarnwal/gst-invoice-service/internal/storage"
)

func main() {
	cfg := config.Load()

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	log.Info().Str("output_dir", cfg.Output.Dir).Msg("starting invoice service")

	renderClient := renderapi.NewClient(&renderapi.Config{
		Endpoint: cfg.Render.Endpoint,
		APIKey:   cfg.Render.APIKey,
		Timeout:  cfg.RenderTimeout(),
	})

	pdfRepo, err := repository.NewPDFRepository(cfg.Output.Dir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise PDF output directory")
	}

	submission := service.NewSubmissionService(renderClient, pdfRepo, log)

	// Archive issued invoices to S3-compatible storage when configured
	if cfg.ArchiveEnabled() {
		uploader, err := storage.NewS3Uploader(&storage.Config{
			Endpoint:        cfg.Archive.Endpoint,
			AccessKeyID:     cfg.Archive.AccessKeyID,
			AccessKeySecret: cfg.Archive.AccessKeySecret,
			Bucket:          cfg.Archive.Bucket,
			Region:          cfg.Archive.Region,
			Prefix:          cfg.Archive.Prefix,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to configure invoice archive")
		}
		submission.SetArchiver(uploader)
		log.Info().Str("bucket", cfg.Archive.Bucket).Msg("invoice archiving enabled")
	}

	invoiceHandler := handler.NewInvoiceHandler(submission, log)

	appServer := server.New(cfg, invoiceHandler, log)
	if err := appServer.Start(); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
