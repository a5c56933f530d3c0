package handlers

import (
	"mmcatalog/internal/config"
	"mmcatalog/internal/media"
	"mmcatalog/internal/repos"
	"mmcatalog/internal/services"
)

type Deps struct {
	Repo repos.Repository

	ProductHandler    *ProductHandler
	SiteHandler       *SiteHandler
	AdminHandler      *AdminHandler
	AuthHandler       *AuthHandler
	UploadHandler     *UploadHandler
	StorefrontHandler *StorefrontHandler
}

// NewDeps wires services and handlers on top of one repository. A nil sink
// stores uploads under cfg.MediaDir.
func NewDeps(repo repos.Repository, cfg config.Config, auth *services.AuthService, sink media.Sink) *Deps {
	catalogSvc := services.NewCatalogService(repo)
	siteSvc := services.NewSiteService(repo)
	if sink == nil {
		sink = media.NewLocalSink(cfg.MediaDir)
	}

	return &Deps{
		Repo:              repo,
		ProductHandler:    &ProductHandler{Catalog: catalogSvc},
		SiteHandler:       &SiteHandler{Site: siteSvc},
		AdminHandler:      &AdminHandler{Catalog: catalogSvc, Site: siteSvc},
		AuthHandler:       &AuthHandler{Auth: auth, SecureCookie: cfg.SecureCookies},
		UploadHandler:     &UploadHandler{Uploader: media.NewUploader(sink, cfg.UploadMaxDim)},
		StorefrontHandler: &StorefrontHandler{Catalog: catalogSvc, Site: siteSvc},
	}
}
