package main

// Dump the text of a PDF so documents parked as NEEDS_TEXT can be
// re-submitted as plain text:
//   go run ./cmd/textdump -file invoice.pdf
//   go run ./cmd/textdump -key <storageKey>

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"docvault-backend/internal/shared/config"
	"docvault-backend/internal/shared/storage/object"
	localstore "docvault-backend/internal/shared/storage/object/local"
	s3store "docvault-backend/internal/shared/storage/object/s3"
	"docvault-backend/internal/textextract"
)

func main() {
	filePath := flag.String("file", "", "local file to extract")
	storageKey := flag.String("key", "", "object store key to extract")
	mimeType := flag.String("mime", "application/pdf", "payload mime type")
	flag.Parse()

	if (*filePath == "") == (*storageKey == "") {
		log.Fatalf("exactly one of -file or -key is required")
	}

	var (
		text string
		err  error
	)
	if *filePath != "" {
		var data []byte
		data, err = os.ReadFile(*filePath)
		if err != nil {
			log.Fatalf("read file: %v", err)
		}
		text, err = textextract.FromBytes(data, *mimeType)
	} else {
		text, err = fromStore(*storageKey, *mimeType)
	}
	if err != nil {
		log.Fatalf("extract: %v", err)
	}

	fmt.Print(text)
}

func fromStore(storageKey, mimeType string) (string, error) {
	cfg := config.Load()
	ctx := context.Background()

	var (
		store object.ObjectStore
		err   error
	)
	if cfg.ObjectStoreType == "s3" {
		store, err = s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
		if err != nil {
			return "", err
		}
	} else {
		store = localstore.New(cfg.LocalStoreDir)
	}

	return textextract.FromObject(ctx, store, storageKey, mimeType)
}
