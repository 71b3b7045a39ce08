package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/venuelink/marketplace-backend/internal/gateway"
	"github.com/venuelink/marketplace-backend/internal/listing"
	"github.com/venuelink/marketplace-backend/pkg/auth"
	"github.com/venuelink/marketplace-backend/pkg/config"
	"github.com/venuelink/marketplace-backend/pkg/enums"
	"github.com/venuelink/marketplace-backend/pkg/logger"
	"github.com/venuelink/marketplace-backend/pkg/metrics"
)

type multiFlag []string

func (m *multiFlag) String() string { return fmt.Sprint([]string(*m)) }

func (m *multiFlag) Set(value string) error {
	*m = append(*m, value)
	return nil
}

func main() {
	logg := logger.New(logger.Options{ServiceName: "listingctl"})

	_ = godotenv.Load()

	cmd := flag.String("cmd", "fetch", "command: fetch|create|update|delete|delete-photo|reconcile-videos|mint-token")
	token := flag.String("token", os.Getenv("VENUELINK_SELLER_TOKEN"), "seller bearer token")

	title := flag.String("title", "", "listing title")
	description := flag.String("description", "", "listing description")
	price := flag.String("price", "", "listing price, decimal")
	status := flag.String("status", "", "listing status")
	category := flag.String("category", "", "listing category")
	condition := flag.String("condition", "", "item condition")
	location := flag.String("location", "", "pickup city")
	phone := flag.String("phone", "", "contact phone")
	email := flag.String("email", "", "contact email")
	sellerType := flag.String("seller-type", "photographer", "seller type: venue|photographer")

	var photos multiFlag
	flag.Var(&photos, "photo", "photo file to stage (repeatable)")
	video := flag.String("video", "", "video file to stage")
	index := flag.Int("index", -1, "persisted photo index for delete-photo")

	sellerID := flag.String("seller", "", "seller id for mint-token")

	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}
	logg = logger.New(logger.Options{
		ServiceName: "listingctl",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx := logg.WithField(context.Background(), "cmd", *cmd)

	if *cmd == "mint-token" {
		parsed, err := enums.ParseSellerType(*sellerType)
		if err != nil {
			fail(ctx, logg, "invalid seller type", err)
		}
		minted, err := auth.MintAccessToken(cfg.JWT, time.Now(), auth.AccessTokenPayload{
			SellerID:   *sellerID,
			SellerType: parsed,
		})
		if err != nil {
			fail(ctx, logg, "failed to mint token", err)
		}
		fmt.Println(minted)
		return
	}

	if *token == "" {
		fail(ctx, logg, "a seller token is required", fmt.Errorf("pass -token or set VENUELINK_SELLER_TOKEN"))
	}

	vocabulary, err := cfg.Listing.Vocabulary()
	if err != nil {
		fail(ctx, logg, "failed to resolve status vocabulary", err)
	}
	schema := listing.Schema{
		Vocabulary: vocabulary,
		MaxPhotos:  cfg.Listing.MaxPhotoSlots,
		MaxVideos:  cfg.Listing.MaxVideoSlots,
	}

	gw, err := gateway.New(cfg.Store, schema, logg, metrics.NewGatewayMetrics(prometheus.NewRegistry()))
	if err != nil {
		fail(ctx, logg, "failed to build store gateway", err)
	}

	session, err := listing.NewSession(listing.SessionParams{
		Schema:  schema,
		Gateway: gw,
		Tokens:  listing.StaticTokenSource(*token),
		Logger:  logg,
	})
	if err != nil {
		fail(ctx, logg, "failed to build session", err)
	}

	if err := session.Load(ctx); err != nil {
		fail(ctx, logg, "failed to load seller listing", err)
	}

	switch *cmd {
	case "fetch":
		printListing(ctx, logg, session.Listing())

	case "create":
		if session.State() != listing.StateCreating {
			fail(ctx, logg, "a listing already exists; use -cmd=update", nil)
		}
		fillDraft(ctx, logg, session.Draft(), schema, *title, *description, *price, *status, *category, *condition, *location, *phone, *email, *sellerType)
		stageMedia(ctx, logg, session.Draft(), photos, *video)
		saved, err := session.Submit(ctx)
		if err != nil {
			fail(ctx, logg, "create failed", err)
		}
		printListing(ctx, logg, saved)

	case "update":
		if err := session.OpenEdit(); err != nil {
			fail(ctx, logg, "no listing to update", err)
		}
		fillDraft(ctx, logg, session.Draft(), schema, *title, *description, *price, *status, *category, *condition, *location, *phone, *email, "")
		stageMedia(ctx, logg, session.Draft(), photos, *video)
		saved, err := session.Submit(ctx)
		if err != nil {
			fail(ctx, logg, "update failed", err)
		}
		printListing(ctx, logg, saved)

	case "delete":
		if err := session.DeleteListing(ctx); err != nil {
			fail(ctx, logg, "delete failed", err)
		}
		fmt.Println("listing deleted")

	case "delete-photo":
		if err := session.OpenEdit(); err != nil {
			fail(ctx, logg, "no listing to edit", err)
		}
		if err := session.DeletePhoto(ctx, *index); err != nil {
			fail(ctx, logg, "photo delete failed", err)
		}
		printListing(ctx, logg, session.Listing())

	case "reconcile-videos":
		current := session.Listing()
		if current == nil {
			fail(ctx, logg, "no listing to reconcile", nil)
		}
		reconciler, err := listing.NewVideoReconciler(gw, logg)
		if err != nil {
			fail(ctx, logg, "failed to build reconciler", err)
		}
		report, err := reconciler.Reconcile(ctx, *token, current)
		if err != nil {
			fail(ctx, logg, "reconcile failed", err)
		}
		fmt.Printf("kept %s, deleted %d excess video(s)\n", report.KeptURL, report.Deleted)
		if report.Failed != nil {
			fail(ctx, logg, "some excess videos could not be deleted", report.Failed)
		}

	default:
		fail(ctx, logg, fmt.Sprintf("unknown command %q", *cmd), nil)
	}
}

// fillDraft applies only the flags the caller actually set, so updates keep
// the seeded values for everything else.
func fillDraft(ctx context.Context, logg *logger.Logger, draft *listing.Draft, schema listing.Schema,
	title, description, price, status, category, condition, location, phone, email, sellerType string) {
	if title != "" {
		draft.Title = title
	}
	if description != "" {
		draft.Description = description
	}
	if price != "" {
		draft.Price = price
	}
	if status != "" {
		parsed, err := schema.Vocabulary.Parse(status)
		if err != nil {
			fail(ctx, logg, "invalid status", err)
		}
		draft.Status = parsed
	}
	if category != "" {
		parsed, err := enums.ParseListingCategory(category)
		if err != nil {
			fail(ctx, logg, "invalid category", err)
		}
		draft.Category = parsed
	}
	if condition != "" {
		parsed, err := enums.ParseItemCondition(condition)
		if err != nil {
			fail(ctx, logg, "invalid condition", err)
		}
		draft.Condition = parsed
	}
	if location != "" {
		parsed, err := enums.ParsePickupCity(location)
		if err != nil {
			fail(ctx, logg, "invalid pickup city", err)
		}
		draft.Location = &parsed
	}
	if phone != "" {
		draft.ContactPhone = phone
	}
	if email != "" {
		draft.ContactEmail = email
	}
	if sellerType != "" {
		parsed, err := enums.ParseSellerType(sellerType)
		if err != nil {
			fail(ctx, logg, "invalid seller type", err)
		}
		draft.SellerType = parsed
	}
}

func stageMedia(ctx context.Context, logg *logger.Logger, draft *listing.Draft, photos []string, video string) {
	var uploads []listing.StagedUpload
	for _, path := range photos {
		uploads = append(uploads, readStagedUpload(ctx, logg, path))
	}
	if len(uploads) > 0 {
		admitted, err := draft.StagePhotos(uploads)
		if err != nil {
			fail(ctx, logg, fmt.Sprintf("only %d photo(s) fit the remaining slots", admitted), err)
		}
	}
	if video != "" {
		if err := draft.StageVideo(readStagedUpload(ctx, logg, video)); err != nil {
			fail(ctx, logg, "video does not fit the remaining slot", err)
		}
	}
}

func readStagedUpload(ctx context.Context, logg *logger.Logger, path string) listing.StagedUpload {
	content, err := os.ReadFile(path)
	if err != nil {
		fail(ctx, logg, "unreadable media file", err)
	}
	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return listing.StagedUpload{
		FileName: filepath.Base(path),
		MimeType: mimeType,
		Payload:  content,
	}
}

func printListing(ctx context.Context, logg *logger.Logger, l *listing.Listing) {
	if l == nil {
		fmt.Println("no listing")
		return
	}
	encoded, err := json.MarshalIndent(gateway.ToPayload(l), "", "  ")
	if err != nil {
		fail(ctx, logg, "failed to render listing", err)
	}
	fmt.Println(string(encoded))
}

func fail(ctx context.Context, logg *logger.Logger, msg string, err error) {
	logg.Error(ctx, msg, err)
	os.Exit(1)
}
