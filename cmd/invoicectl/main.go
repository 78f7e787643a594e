package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/skbarnwal/gst-invoice-service/internal/config"
	"github.com/skbarnwal/gst-invoice-service/internal/form"
	"github.com/skbarnwal/gst-invoice-service/internal/logger"
	"github.com/skbarnwal/gst-invoice-service/internal/model"
	"github.com/skbarnwal/gst-invoice-service/internal/renderapi"
	"github.com/skbarnwal/gst-invoice-service/internal/repository"
	"github.com/skbarnwal/gst-invoice-service/internal/service"
	"github.com/skbarnwal/gst-invoice-service/internal/storage"
)

func main() {
	app := &cli.App{
		Name:  "invoicectl",
		Usage: "prepare GST invoices and render them through the PDF service",
		Commands: []*cli.Command{
			{
				Name:      "totals",
				Usage:     "compute item amounts, subtotal, CGST, SGST and total for a draft file",
				ArgsUsage: "<draft.json>",
				Action:    runTotals,
			},
			{
				Name:      "submit",
				Usage:     "validate a draft, render it remotely and save invoice_<no>.pdf",
				ArgsUsage: "<draft.json>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "endpoint",
						Usage: "render service URL (overrides RENDER_ENDPOINT)",
					},
					&cli.StringFlag{
						Name:  "api-key",
						Usage: "render service API key (overrides RENDER_API_KEY)",
					},
					&cli.StringFlag{
						Name:  "output",
						Usage: "directory the PDF is written to (overrides OUTPUT_DIR)",
					},
				},
				Action: runSubmit,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadForm reads a draft file and replays it through the form controller so
// every row goes through the same add/update path the entry form uses.
func loadForm(path string) (*form.Form, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read draft file: %w", err)
	}

	var dto model.DraftDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, fmt.Errorf("failed to parse draft file: %w", err)
	}

	f := form.New()
	f.SetInvoiceNo(dto.InvoiceNo)
	f.SetInvoiceDate(dto.InvoiceDate)
	f.SetRecipientName(dto.RecipientName)
	f.SetRecipientAddress(dto.RecipientAddress)
	f.SetRecipientGSTIN(dto.RecipientGSTIN)
	f.SetJobDescription(dto.JobDescription)

	for i, item := range dto.Items {
		var id string
		if i == 0 {
			// The form starts with one empty row
			id = f.Items()[0].ID
		} else {
			id = f.AddItem()
		}
		f.UpdateItem(id, form.FieldName, item.Name)
		f.UpdateItem(id, form.FieldQuantity, item.Quantity)
		f.UpdateItem(id, form.FieldRate, item.Rate)
	}

	return f, nil
}

func runTotals(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: invoicectl totals <draft.json>", 2)
	}

	f, err := loadForm(c.Args().First())
	if err != nil {
		return err
	}

	for _, item := range f.Items() {
		if item.Name == "" {
			continue
		}
		fmt.Printf("%-50s %10s\n", item.Name, item.Total().String())
	}
	fmt.Printf("%-50s %10s\n", "Subtotal", f.Subtotal().String())
	fmt.Printf("%-50s %10s\n", "CGST @ 9%", f.CGST().StringFixed(2))
	fmt.Printf("%-50s %10s\n", "SGST @ 9%", f.SGST().StringFixed(2))
	fmt.Printf("%-50s %10s\n", "Total", f.Total().StringFixed(2))
	return nil
}

func runSubmit(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: invoicectl submit <draft.json>", 2)
	}

	cfg := config.Load()
	if v := c.String("endpoint"); v != "" {
		cfg.Render.Endpoint = v
	}
	if v := c.String("api-key"); v != "" {
		cfg.Render.APIKey = v
	}
	if v := c.String("output"); v != "" {
		cfg.Output.Dir = v
	}

	log := logger.New(cfg.Log.Level, "pretty")

	f, err := loadForm(c.Args().First())
	if err != nil {
		return err
	}

	renderClient := renderapi.NewClient(&renderapi.Config{
		Endpoint: cfg.Render.Endpoint,
		APIKey:   cfg.Render.APIKey,
		Timeout:  cfg.RenderTimeout(),
	})

	pdfRepo, err := repository.NewPDFRepository(cfg.Output.Dir)
	if err != nil {
		return err
	}

	submission := service.NewSubmissionService(renderClient, pdfRepo, log)
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
			return err
		}
		submission.SetArchiver(uploader)
	}

	outcome, err := f.Submit(c.Context, submission)
	if err != nil {
		return err
	}

	fmt.Printf("Invoice PDF saved to %s\n", outcome.Path)
	if outcome.ArchiveURL != "" {
		fmt.Printf("Archived at %s\n", outcome.ArchiveURL)
	}
	return nil
}
