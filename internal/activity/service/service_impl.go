package service

import (
	"context"
	"strings"
	"time"

	"github.com/arclear/arclear/internal/activity/domain"
	"github.com/arclear/arclear/internal/config"
	"github.com/arclear/arclear/internal/orgcontext"
	"github.com/arclear/arclear/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Repo        domain.Repository
	Collections *config.CollectionsConfigHolder `optional:"true"`
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	repo        domain.Repository
	collections *config.CollectionsConfigHolder
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("activity.service"),
		genID:       p.GenID,
		repo:        p.Repo,
		collections: p.Collections,
	}
}

func (s *Service) Record(ctx context.Context, req domain.RecordRequest) error {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.ErrInvalidOrganization
	}

	payload := map[string]any{}
	for key, value := range req.Metadata {
		if key == "" {
			continue
		}
		payload[key] = value
	}

	entry := domain.Activity{
		ID:         s.genID.Generate(),
		OrgID:      orgID,
		CustomerID: req.CustomerID,
		InvoiceID:  req.InvoiceID,
		Type:       req.Type,
		Metadata:   datatypes.JSONMap(payload),
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.repo.Insert(ctx, s.db, &entry); err != nil {
		s.log.Warn("failed to append activity", zap.String("type", string(req.Type)), zap.Error(err))
		return err
	}
	return nil
}

func (s *Service) List(ctx context.Context, req domain.ListActivityRequest) (domain.ListActivityResponse, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.ListActivityResponse{}, domain.ErrInvalidOrganization
	}

	filter := domain.ListFilter{}
	if activityType := strings.TrimSpace(req.Type); activityType != "" {
		switch domain.ActivityType(activityType) {
		case domain.ActivityInvoiceUploaded, domain.ActivityPaymentRecorded, domain.ActivityDisputeFlagged, domain.ActivityNoteAdded:
			filter.Type = domain.ActivityType(activityType)
		default:
			return domain.ListActivityResponse{}, domain.ErrInvalidType
		}
	}
	if customerID := strings.TrimSpace(req.CustomerID); customerID != "" {
		parsed, err := snowflake.ParseString(customerID)
		if err != nil {
			return domain.ListActivityResponse{}, domain.ErrInvalidCustomerID
		}
		filter.CustomerID = parsed
	}

	var cursor *pagination.Cursor
	if strings.TrimSpace(req.PageToken) != "" {
		decoded, err := pagination.DecodeCursor(req.PageToken)
		if err != nil {
			return domain.ListActivityResponse{}, domain.ErrInvalidPageToken
		}
		cursor = decoded
	}

	limit := req.PageSize
	if limit <= 0 {
		limit = config.DefaultCollectionsConfig().ActivityPageSize
		if s.collections != nil {
			limit = s.collections.Get().ActivityPageSize
		}
	}

	items, err := s.repo.List(ctx, s.db, orgID, filter, cursor, limit)
	if err != nil {
		return domain.ListActivityResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, limit, func(activity *domain.Activity) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        activity.ID.String(),
			CreatedAt: activity.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if len(items) > limit {
		items = items[:limit]
	}

	activities := make([]domain.Activity, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		activities = append(activities, *item)
	}

	resp := domain.ListActivityResponse{Activities: activities}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}
