package server

import (
	"context"
	nethttp "net/http"

	"trimlink/internal/conf"
	"trimlink/internal/domain"
	"trimlink/internal/service"
	"trimlink/pkg/problemdetails"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/auth/jwt"
	"github.com/go-kratos/kratos/v2/middleware/logging"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/middleware/selector"
	"github.com/go-kratos/kratos/v2/middleware/tracing"
	"github.com/go-kratos/kratos/v2/transport/http"
	jwtv5 "github.com/golang-jwt/jwt/v5"
)

const (
	OperationCreateLink   = "/trimlink.v1.LinkService/CreateLink"
	OperationListLinks    = "/trimlink.v1.LinkService/ListLinks"
	OperationGetLink      = "/trimlink.v1.LinkService/GetLink"
	OperationDeleteLink   = "/trimlink.v1.LinkService/DeleteLink"
	OperationGetClicks    = "/trimlink.v1.LinkService/GetClicks"
	OperationGetLinkStats = "/trimlink.v1.LinkService/GetLinkStats"
	OperationRedirect     = "/trimlink.v1.LinkService/Redirect"
)

// NewHTTPServer new an HTTP server.
func NewHTTPServer(c *conf.Server, auth *conf.Auth, links *service.LinkService, logger log.Logger) (*http.Server, error) {
	if auth.JwtSecret == "" {
		log.NewHelper(logger).Warn("auth.jwt_secret is empty: owner routes will reject every token")
	}
	ips, err := newClientIPResolver(c.Http.TrustedProxies)
	if err != nil {
		return nil, err
	}

	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
			tracing.Server(),
			logging.Server(logger),
			selector.Server(
				jwt.Server(
					func(*jwtv5.Token) (interface{}, error) {
						return []byte(auth.JwtSecret), nil
					},
					jwt.WithSigningMethod(jwtv5.SigningMethodHS256),
				),
			).Match(ownerOnly).Build(),
		),
		http.ErrorEncoder(problemdetails.Encode),
	}
	if c.Http.Network != "" {
		opts = append(opts, http.Network(c.Http.Network))
	}
	if c.Http.Addr != "" {
		opts = append(opts, http.Address(c.Http.Addr))
	}
	if c.Http.Timeout > 0 {
		opts = append(opts, http.Timeout(c.Http.Timeout.AsDuration()))
	}
	srv := http.NewServer(opts...)

	srv.HandleFunc("/healthz", func(w nethttp.ResponseWriter, _ *nethttp.Request) {
		w.WriteHeader(nethttp.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	registerLinkRoutes(srv, links, ips)

	return srv, nil
}

// ownerOnly selects every operation except the public redirect.
func ownerOnly(_ context.Context, operation string) bool {
	return operation != OperationRedirect
}

func registerLinkRoutes(srv *http.Server, s *service.LinkService, ips *clientIPResolver) {
	r := srv.Route("/")
	r.POST("/v1/links", createLinkHandler(s))
	r.GET("/v1/links", listLinksHandler(s))
	r.GET("/v1/links/{id}", getLinkHandler(s))
	r.DELETE("/v1/links/{id}", deleteLinkHandler(s))
	r.GET("/v1/links/{id}/clicks", getClicksHandler(s))
	r.GET("/v1/links/{id}/stats", getLinkStatsHandler(s))
	r.GET("/r/{identifier}", redirectHandler(s, ips))
}

func createLinkHandler(s *service.LinkService) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in service.CreateLinkRequest
		if err := ctx.Bind(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, OperationCreateLink)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return s.CreateLink(ctx, req.(*service.CreateLinkRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.Result(200, out.(*service.CreateLinkReply))
	}
}

func listLinksHandler(s *service.LinkService) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in service.ListLinksRequest
		http.SetOperation(ctx, OperationListLinks)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return s.ListLinks(ctx, req.(*service.ListLinksRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.Result(200, out.(*service.ListLinksReply))
	}
}

func getLinkHandler(s *service.LinkService) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in service.GetLinkRequest
		if err := ctx.BindVars(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, OperationGetLink)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return s.GetLink(ctx, req.(*service.GetLinkRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.Result(200, out.(*service.GetLinkReply))
	}
}

func deleteLinkHandler(s *service.LinkService) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in service.DeleteLinkRequest
		if err := ctx.BindVars(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, OperationDeleteLink)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return s.DeleteLink(ctx, req.(*service.DeleteLinkRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.Result(200, out.(*service.DeleteLinkReply))
	}
}

func getClicksHandler(s *service.LinkService) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in service.GetClicksRequest
		if err := ctx.BindVars(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, OperationGetClicks)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return s.GetClicks(ctx, req.(*service.GetClicksRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.Result(200, out.(*service.GetClicksReply))
	}
}

func getLinkStatsHandler(s *service.LinkService) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in service.GetLinkStatsRequest
		if err := ctx.BindVars(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, OperationGetLinkStats)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return s.GetLinkStats(ctx, req.(*service.GetLinkStatsRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.Result(200, out.(*service.GetLinkStatsReply))
	}
}

// redirectHandler answers 302 to the original URL. The click is recorded in
// the background and never changes the response.
func redirectHandler(s *service.LinkService, ips *clientIPResolver) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		identifier := ctx.Vars().Get("identifier")
		req := ctx.Request()
		visit := domain.RequestContext{
			UserAgent: req.UserAgent(),
			ClientIP:  ips.ClientIP(req),
			Referer:   req.Referer(),
		}
		http.SetOperation(ctx, OperationRedirect)
		h := ctx.Middleware(func(ctx context.Context, _ interface{}) (interface{}, error) {
			return s.Redirect(ctx, identifier, visit)
		})
		out, err := h(ctx, nil)
		if err != nil {
			return err
		}
		nethttp.Redirect(ctx.Response(), req, out.(string), nethttp.StatusFound)
		return nil
	}
}
