package storage

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site-backend/models"
)

// SeedOptions controls the bootstrap data written by Seed.
type SeedOptions struct {
	AdminUsername string
	// AdminPasswordHash is stored as is; callers hash the password first.
	AdminPasswordHash string
	SampleProjects    bool
}

// Seed creates the admin user and, optionally, the sample projects. It checks
// for existing data first and is safe to run on every start.
func Seed(ctx context.Context, s Storage, opts SeedOptions) error {
	logger := log.With().Str("component", "seed").Str("backend", s.Backend().String()).Logger()

	if opts.AdminUsername != "" {
		existing, err := s.GetUserByUsername(ctx, opts.AdminUsername)
		if err != nil {
			return fmt.Errorf("look up admin user: %w", err)
		}
		if existing == nil {
			if _, err := s.CreateUser(ctx, models.NewUser{
				Username: opts.AdminUsername,
				Password: opts.AdminPasswordHash,
			}); err != nil {
				return fmt.Errorf("create admin user: %w", err)
			}
			logger.Info().Str("username", opts.AdminUsername).Msg("created admin user")
		}
	}

	if !opts.SampleProjects {
		return nil
	}

	projects, err := s.GetProjects(ctx)
	if err != nil {
		return fmt.Errorf("list projects: %w", err)
	}
	if len(projects) > 0 {
		return nil
	}

	for _, p := range SampleProjects() {
		if _, err := s.CreateProject(ctx, p); err != nil {
			return fmt.Errorf("create sample project %q: %w", p.Title, err)
		}
	}
	logger.Info().Int("count", len(SampleProjects())).Msg("created sample projects")
	return nil
}

// SampleProjects returns the demo projects written on first start.
func SampleProjects() []models.NewProject {
	ptr := func(s string) *string { return &s }
	return []models.NewProject{
		{
			Title:        "Modern E-commerce Platform",
			Description:  "A full-featured online store with seamless checkout process and inventory management.",
			Category:     models.CategoryWebApp,
			ImageURL:     ptr("https://images.unsplash.com/photo-1517292987719-0369a794ec0f?auto=format&fit=crop&w=600&h=400"),
			Technologies: []string{"React", "Node.js", "MongoDB"},
			ProjectURL:   ptr("https://example.com/ecommerce"),
		},
		{
			Title:        "Interactive Product Configurator",
			Description:  "Real-time 3D product visualization with customizable features and export options.",
			Category:     models.Category3DApp,
			ImageURL:     ptr("https://images.unsplash.com/photo-1633356122544-f134324a6cee?auto=format&fit=crop&w=600&h=400"),
			Technologies: []string{"Three.js", "React", "WebGL"},
			ProjectURL:   ptr("https://example.com/configurator"),
		},
		{
			Title:        "Analytics Dashboard",
			Description:  "Interactive data visualization platform with real-time metrics and customizable reports.",
			Category:     models.CategoryDashboard,
			ImageURL:     ptr("https://images.unsplash.com/photo-1551288049-bebda4e38f71?auto=format&fit=crop&w=600&h=400"),
			Technologies: []string{"D3.js", "Vue", "Firebase"},
			ProjectURL:   ptr("https://example.com/analytics"),
		},
	}
}
