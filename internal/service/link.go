package service

import (
	"context"
	"strings"

	"trimlink/internal/biz"
	"trimlink/internal/conf"
	"trimlink/internal/domain"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/samber/lo"
)

// LinkService exposes link management to owners and redirects to everyone.
type LinkService struct {
	links    *biz.LinkUsecase
	clicks   *biz.ClickUsecase
	recorder *biz.ClickRecorder
	baseURL  string
	log      *log.Helper
}

// NewLinkService creates a new LinkService.
func NewLinkService(links *biz.LinkUsecase, clicks *biz.ClickUsecase, recorder *biz.ClickRecorder, c *conf.Link, logger log.Logger) *LinkService {
	return &LinkService{
		links:    links,
		clicks:   clicks,
		recorder: recorder,
		baseURL:  strings.TrimRight(c.BaseURL, "/"),
		log:      log.NewHelper(logger),
	}
}

func (s *LinkService) CreateLink(ctx context.Context, req *CreateLinkRequest) (*CreateLinkReply, error) {
	owner, err := ownerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.links.CreateLink(ctx, biz.CreateLinkInput{
		OwnerID:     owner,
		Title:       req.Title,
		OriginalURL: req.OriginalURL,
		CustomAlias: req.CustomAlias,
		QRImage:     req.QRImage,
	})
	if err != nil {
		return nil, s.apiError(ctx, err)
	}

	reply := &CreateLinkReply{
		Link:     s.toLinkInfo(result.Link),
		QRStored: result.QRStored(),
	}
	if result.QRErr != nil {
		reply.Warning = "link created without QR image: " + result.QRErr.Error()
	}
	return reply, nil
}

// ListLinks is the owner dashboard: every link with its click total.
func (s *LinkService) ListLinks(ctx context.Context, _ *ListLinksRequest) (*ListLinksReply, error) {
	owner, err := ownerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	dash, err := s.clicks.Dashboard(ctx, owner)
	if err != nil {
		return nil, s.apiError(ctx, err)
	}

	return &ListLinksReply{
		Links: lo.Map(dash.Links, func(lc biz.LinkClicks, _ int) *LinkSummary {
			return &LinkSummary{LinkInfo: s.toLinkInfo(lc.Link), Clicks: lc.Clicks}
		}),
		TotalLinks:  len(dash.Links),
		TotalClicks: dash.TotalClicks,
	}, nil
}

func (s *LinkService) GetLink(ctx context.Context, req *GetLinkRequest) (*GetLinkReply, error) {
	owner, err := ownerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	link, err := s.links.GetLink(ctx, req.ID, owner)
	if err != nil {
		return nil, s.apiError(ctx, err)
	}
	return &GetLinkReply{Link: s.toLinkInfo(link)}, nil
}

func (s *LinkService) DeleteLink(ctx context.Context, req *DeleteLinkRequest) (*DeleteLinkReply, error) {
	owner, err := ownerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.links.DeleteLink(ctx, req.ID, owner); err != nil {
		return nil, s.apiError(ctx, err)
	}
	return &DeleteLinkReply{Success: true}, nil
}

func (s *LinkService) GetClicks(ctx context.Context, req *GetClicksRequest) (*GetClicksReply, error) {
	owner, err := ownerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	link, err := s.links.GetLink(ctx, req.ID, owner)
	if err != nil {
		return nil, s.apiError(ctx, err)
	}
	events, err := s.clicks.GetClicks(ctx, link.ID())
	if err != nil {
		return nil, s.apiError(ctx, err)
	}

	return &GetClicksReply{
		Clicks: lo.Map(events, func(e domain.ClickEvent, _ int) *ClickInfo {
			return &ClickInfo{
				Timestamp:  e.Timestamp,
				DeviceType: string(e.DeviceType),
				City:       e.City,
				Country:    e.Country,
			}
		}),
	}, nil
}

func (s *LinkService) GetLinkStats(ctx context.Context, req *GetLinkStatsRequest) (*GetLinkStatsReply, error) {
	owner, err := ownerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	stats, err := s.clicks.LinkStats(ctx, req.ID, owner)
	if err != nil {
		return nil, s.apiError(ctx, err)
	}

	return &GetLinkStatsReply{
		Link:        s.toLinkInfo(stats.Link),
		TotalClicks: stats.Summary.TotalClicks,
		Devices: lo.MapKeys(stats.Summary.Devices, func(_ int, d domain.DeviceType) string {
			return string(d)
		}),
		Cities:    stats.Summary.Cities,
		Countries: stats.Summary.Countries,
	}, nil
}

// Redirect resolves identifier and schedules the click. Recording never
// delays or fails the redirect.
func (s *LinkService) Redirect(ctx context.Context, identifier string, visit domain.RequestContext) (string, error) {
	link, err := s.links.Resolve(ctx, identifier)
	if err != nil {
		return "", s.apiError(ctx, err)
	}

	s.recorder.Record(ctx, link.ID(), visit)
	return link.OriginalURL().String(), nil
}

func (s *LinkService) apiError(ctx context.Context, err error) error {
	apiErr := toAPIError(err)
	if errors.Code(apiErr) >= 500 {
		s.log.WithContext(ctx).Errorf("request failed: %v", err)
	}
	return apiErr
}

func (s *LinkService) toLinkInfo(l *domain.ShortLink) *LinkInfo {
	return &LinkInfo{
		ID:          l.ID(),
		Title:       l.Title(),
		OriginalURL: l.OriginalURL().String(),
		ShortCode:   l.ShortCode(),
		CustomAlias: l.CustomAlias(),
		ShortURL:    s.baseURL + "/" + l.Identifier(),
		QRAssetRef:  l.QRAssetRef(),
		CreatedAt:   l.CreatedAt(),
	}
}
