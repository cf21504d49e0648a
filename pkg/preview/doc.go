// Package preview serves templates rendered with localized content over
// HTTP. It is meant for translators and designers checking content in
// place: GET /{template} renders the template for the request locale, and
// ?edit=true turns on <edit> annotations.
//
// The locale comes from the locale query parameter, then from the
// Accept-Language header, then from the configured default. Bundles are
// taken from a bundle.Pool, so a locale without content falls back along
// its parents.
//
// Usage:
//
//	pool := bundle.NewPool("locales", bundle.WithDefaultLocale("en"))
//	h := preview.NewHandler(os.DirFS("templates"), pool,
//		preview.WithDefaultLocale("en"),
//		preview.WithReadinessCheck("redis", bundle.RedisHealthcheck(client)),
//	)
//
//	srv := preview.NewServer(preview.WithAddr(":8080"))
//	if err := srv.Run(ctx, h); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
//
// Run returns when ctx is cancelled, after a graceful shutdown bounded by
// the shutdown timeout. Listen failures are wrapped with ErrStart and
// shutdown failures with ErrShutdown.
package preview
