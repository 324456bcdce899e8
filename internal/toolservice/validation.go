package toolservice

import (
	"github.com/sushihentaime/toolshelf/internal/catalog"
	"github.com/sushihentaime/toolshelf/internal/common"
)

func validateName(v *common.Validator, name string) {
	v.Check(name != "", "name", "must be provided")
	v.Check(v.CheckStringLength(name, 0, 200), "name", "must not be more than 200 characters long")
}

func validateURL(v *common.Validator, url string) {
	v.Check(url != "", "url", "must be provided")
	v.Check(url == "" || v.CheckURL(url), "url", "must be an absolute http or https URL")
}

func validateOptionalURL(v *common.Validator, url, field string) {
	v.Check(url == "" || v.CheckURL(url), field, "must be an absolute http or https URL")
}

func validateResources(v *common.Validator, resources []catalog.Resource) {
	for _, r := range resources {
		if r.Title == "" || !v.CheckURL(r.URL) {
			v.AddError("resources", "every resource needs a title and an absolute URL")
			return
		}
	}
}

func validateInt(v *common.Validator, num int, name string) {
	v.Check(num > 0, name, "must be greater than zero")
}

func validateTool(v *common.Validator, t catalog.Tool) {
	validateName(v, t.Name)
	validateURL(v, t.URL)
	validateOptionalURL(v, t.ImageURL, "image_url")
	validateOptionalURL(v, t.YoutubeURL, "youtube_url")
	validateResources(v, t.Resources)
}

func validatePatch(v *common.Validator, p catalog.ToolPatch) {
	if p.Name != nil {
		validateName(v, *p.Name)
	}
	if p.URL != nil {
		validateURL(v, *p.URL)
	}
	if p.ImageURL != nil {
		validateOptionalURL(v, *p.ImageURL, "image_url")
	}
	if p.YoutubeURL != nil {
		validateOptionalURL(v, *p.YoutubeURL, "youtube_url")
	}
	if p.Resources != nil {
		validateResources(v, *p.Resources)
	}
}
