package blogservice

import (
	"regexp"

	"github.com/sushihentaime/toolshelf/internal/catalog"
	"github.com/sushihentaime/toolshelf/internal/common"
)

var (
	SlugRX = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

func validateTitle(v *common.Validator, title string) {
	v.Check(title != "", "title", "must be provided")
	v.Check(v.CheckStringLength(title, 0, 300), "title", "must not be more than 300 characters long")
}

func validateContent(v *common.Validator, content string) {
	v.Check(content != "", "content", "must be provided")
}

func validateSlug(v *common.Validator, slug string) {
	v.Check(slug != "", "slug", "must be provided")
	v.Check(slug == "" || SlugRX.MatchString(slug), "slug", "must only contain lowercase letters, numbers, and single hyphens")
}

func validateOptionalURL(v *common.Validator, url, field string) {
	v.Check(url == "" || v.CheckURL(url), field, "must be an absolute http or https URL")
}

func validateInt(v *common.Validator, num int, name string) {
	v.Check(num > 0, name, "must be greater than zero")
}

func validatePost(v *common.Validator, p catalog.Post) {
	validateTitle(v, p.Title)
	validateContent(v, p.Content)
	validateSlug(v, p.Slug)
	validateOptionalURL(v, p.FeaturedImage, "featured_image")
}

func validatePatch(v *common.Validator, p catalog.PostPatch) {
	if p.Title != nil {
		validateTitle(v, *p.Title)
	}
	if p.Content != nil {
		validateContent(v, *p.Content)
	}
	if p.Slug != nil {
		validateSlug(v, *p.Slug)
	}
	if p.FeaturedImage != nil {
		validateOptionalURL(v, *p.FeaturedImage, "featured_image")
	}
}
