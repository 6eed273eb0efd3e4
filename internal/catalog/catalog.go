// Package catalog holds the criterion options offered for each entity collection.
package catalog

import (
	"github.com/stashapp/stash-sub011/internal/domain/criterion"
	"github.com/stashapp/stash-sub011/internal/domain/criterion/registry"
	"github.com/stashapp/stash-sub011/internal/domain/filter/mode"
)

// Enumerated value domains.
var (
	Resolutions = []string{
		"VERY_LOW", "LOW", "R360P", "STANDARD", "WEB_HD", "STANDARD_HD",
		"FULL_HD", "QUAD_HD", "FOUR_K", "FIVE_K", "SIX_K", "SEVEN_K", "EIGHT_K", "HUGE",
	}
	Orientations = []string{"LANDSCAPE", "PORTRAIT", "SQUARE"}
	Genders      = []string{
		"MALE", "FEMALE", "TRANSGENDER_MALE", "TRANSGENDER_FEMALE", "INTERSEX", "NON_BINARY",
	}
	CircumcisedValues = []string{"CUT", "UNCUT"}
)

// Options shared by several collections. Options are immutable so one value
// can be registered in more than one collection.
var (
	title     = criterion.NewStringOption("title")
	code      = criterion.NewStringOption("code", criterion.WithMessageID("scene_code"))
	details   = criterion.NewStringOption("details")
	name      = criterion.NewMandatoryStringOption("name")
	path      = criterion.NewMandatoryStringOption("path")
	url       = criterion.NewStringOption("url")
	aliases   = criterion.NewStringOption("aliases")
	rating    = criterion.NewNumberOption("rating100", criterion.WithMessageID("rating"))
	oCounter  = criterion.NewMandatoryNumberOption("o_counter")
	playCount = criterion.NewMandatoryNumberOption("play_count")
	fileCount = criterion.NewMandatoryNumberOption("file_count")
	organized = criterion.NewBooleanOption("organized")
	favorite  = criterion.NewBooleanOption("favorite", criterion.WithParameterName("filter_favorites"))
	ignoreAT  = criterion.NewBooleanOption("ignore_auto_tag")
	date      = criterion.NewDateOption("date")
	createdAt = criterion.NewMandatoryTimestampOption("created_at")
	updatedAt = criterion.NewMandatoryTimestampOption("updated_at")
	stashID   = criterion.NewStashIDOption("stash_id_endpoint")

	resolution  = criterion.NewEnumOption("resolution", Resolutions)
	orientation = criterion.NewEnumOption("orientation", Orientations)

	tags          = criterion.NewHierarchicalOption("tags", true, criterion.InputTags)
	studios       = criterion.NewHierarchicalOption("studios", false, criterion.InputStudios)
	performers    = criterion.NewLabeledIDOption("performers", true, criterion.InputPerformers)
	performerTags = criterion.NewHierarchicalOption("performer_tags", true, criterion.InputTags)
	galleries     = criterion.NewLabeledIDOption("galleries", false, criterion.InputGalleries)
	groups        = criterion.NewHierarchicalOption("groups", false, criterion.InputGroups)

	performerFavorite = criterion.NewBooleanOption("performer_favorite")
	scenesCount       = criterion.NewMandatoryNumberOption("scene_count")
	imageCount        = criterion.NewMandatoryNumberOption("image_count")
	galleryCount      = criterion.NewMandatoryNumberOption("gallery_count")
	performerCount    = criterion.NewMandatoryNumberOption("performer_count")
	tagCount          = criterion.NewMandatoryNumberOption("tag_count")
	photographer      = criterion.NewStringOption("photographer")
)

func missing(fields ...string) *criterion.Option {
	return criterion.NewFlagOption("is_missing", fields)
}

func sceneOptions() []*criterion.Option {
	return []*criterion.Option{
		title,
		code,
		details,
		criterion.NewStringOption("director"),
		path,
		rating,
		organized,
		oCounter,
		resolution,
		orientation,
		criterion.NewDurationOption("duration"),
		criterion.NewNumberOption("resume_time"),
		playCount,
		criterion.NewTimestampOption("last_played_at"),
		criterion.NewBooleanOption("interactive"),
		criterion.NewNumberOption("interactive_speed"),
		criterion.NewStringOption("captions"),
		missing("title", "cover", "details", "url", "date", "studio", "movie", "performers", "tags", "stash_id"),
		tags,
		performerTags,
		performers,
		performerCount,
		performerFavorite,
		studios,
		groups,
		galleries,
		tagCount,
		fileCount,
		criterion.NewStringBooleanOption("has_markers"),
		criterion.NewBooleanOption("duplicated", criterion.WithParameterName("duplicated_phash")),
		criterion.NewPhashOption("phash_distance"),
		stashID,
		url,
		date,
		createdAt,
		updatedAt,
	}
}

func performerOptions() []*criterion.Option {
	return []*criterion.Option{
		name,
		criterion.NewStringOption("disambiguation"),
		details,
		favorite,
		criterion.NewEnumOption("gender", Genders),
		criterion.NewDateOption("birthdate"),
		criterion.NewDateOption("death_date"),
		criterion.NewNumberOption("age"),
		criterion.NewNumberOption("birth_year"),
		criterion.NewStringOption("country"),
		criterion.NewStringOption("ethnicity"),
		criterion.NewStringOption("hair_color"),
		criterion.NewStringOption("eye_color"),
		criterion.NewNumberOption("height_cm", criterion.WithMessageID("height")),
		criterion.NewNumberOption("weight"),
		criterion.NewStringOption("measurements"),
		criterion.NewStringOption("fake_tits"),
		criterion.NewNumberOption("penis_length"),
		criterion.NewEnumOption("circumcised", CircumcisedValues),
		criterion.NewStringOption("career_length"),
		criterion.NewStringOption("tattoos"),
		criterion.NewStringOption("piercings"),
		aliases,
		rating,
		oCounter,
		playCount,
		scenesCount,
		imageCount,
		galleryCount,
		tags,
		tagCount,
		studios,
		missing("url", "ethnicity", "country", "hair_color", "eye_color", "height", "measurements",
			"fake_tits", "career_length", "tattoos", "piercings", "aliases", "gender", "image", "details", "stash_id"),
		ignoreAT,
		stashID,
		url,
		createdAt,
		updatedAt,
	}
}

func studioOptions() []*criterion.Option {
	return []*criterion.Option{
		name,
		details,
		criterion.NewHierarchicalOption("parents", false, criterion.InputStudios, criterion.WithMessageID("parent_studios")),
		criterion.NewMandatoryNumberOption("child_count", criterion.WithMessageID("subsidiary_studio_count")),
		tags,
		tagCount,
		rating,
		favorite,
		scenesCount,
		imageCount,
		galleryCount,
		aliases,
		url,
		missing("image", "details", "stash_id"),
		ignoreAT,
		stashID,
		createdAt,
		updatedAt,
	}
}

func tagOptions() []*criterion.Option {
	return []*criterion.Option{
		name,
		aliases,
		criterion.NewStringOption("description"),
		favorite,
		criterion.NewHierarchicalOption("parents", true, criterion.InputTags, criterion.WithMessageID("parent_tags")),
		criterion.NewHierarchicalOption("children", true, criterion.InputTags, criterion.WithMessageID("sub_tags")),
		criterion.NewMandatoryNumberOption("parent_count"),
		criterion.NewMandatoryNumberOption("child_count", criterion.WithMessageID("sub_tag_count")),
		scenesCount,
		imageCount,
		galleryCount,
		performerCount,
		criterion.NewMandatoryNumberOption("studio_count"),
		criterion.NewMandatoryNumberOption("group_count"),
		criterion.NewMandatoryNumberOption("marker_count"),
		missing("image"),
		ignoreAT,
		createdAt,
		updatedAt,
	}
}

func groupOptions() []*criterion.Option {
	return []*criterion.Option{
		name,
		criterion.NewStringOption("director"),
		criterion.NewStringOption("synopsis"),
		criterion.NewDurationOption("duration"),
		rating,
		date,
		studios,
		tags,
		tagCount,
		performers,
		criterion.NewHierarchicalOption("containing_groups", true, criterion.InputGroups),
		criterion.NewHierarchicalOption("sub_groups", true, criterion.InputGroups),
		criterion.NewMandatoryNumberOption("containing_group_count"),
		criterion.NewMandatoryNumberOption("sub_group_count"),
		missing("front_image", "back_image", "scenes"),
		url,
		createdAt,
		updatedAt,
	}
}

func galleryOptions() []*criterion.Option {
	return []*criterion.Option{
		title,
		code,
		details,
		path,
		rating,
		organized,
		criterion.NewEnumOption("average_resolution", Resolutions),
		imageCount,
		missing("title", "details", "url", "date", "studio", "performers", "tags", "scenes"),
		tags,
		tagCount,
		performerTags,
		performers,
		performerCount,
		performerFavorite,
		studios,
		criterion.NewLabeledIDOption("scenes", false, criterion.InputScenes),
		photographer,
		fileCount,
		url,
		date,
		createdAt,
		updatedAt,
	}
}

func imageOptions() []*criterion.Option {
	return []*criterion.Option{
		title,
		code,
		details,
		path,
		rating,
		organized,
		oCounter,
		resolution,
		orientation,
		missing("title", "galleries", "studio", "performers", "tags"),
		tags,
		tagCount,
		performerTags,
		performers,
		performerCount,
		performerFavorite,
		studios,
		galleries,
		photographer,
		fileCount,
		url,
		date,
		createdAt,
		updatedAt,
	}
}

// Lists returns the option list of every collection.
func Lists() map[mode.Mode][]*criterion.Option {
	return map[mode.Mode][]*criterion.Option{
		mode.Scenes:     sceneOptions(),
		mode.Performers: performerOptions(),
		mode.Studios:    studioOptions(),
		mode.Tags:       tagOptions(),
		mode.Groups:     groupOptions(),
		mode.Galleries:  galleryOptions(),
		mode.Images:     imageOptions(),
	}
}

// Default builds the registry with every collection's options.
func Default() *registry.Registry {
	r := registry.New()
	lists := Lists()
	for _, m := range mode.All() {
		r.MustRegister(m, lists[m]...)
	}
	return r
}
