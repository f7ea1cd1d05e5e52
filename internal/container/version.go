package container

import (
	"regexp"

	"github.com/retroenv/retrocheat/internal/cursor"
	"github.com/retroenv/retrocheat/internal/detector"
	"github.com/retroenv/retrocheat/internal/fsblob"
	"github.com/retroenv/retrocheat/internal/model"
	"github.com/retroenv/retrogolib/log"
)

var versionPattern = regexp.MustCompile(`Version (\d+\.\d+)`)

// detectVersion reads brand and version number from the title and the
// menu text, and the build time from the header timestamp.
func (r *ROM) detectVersion() model.Version {
	v := model.Version{Brand: r.Layout.Brand}

	if brand, ok := detector.FindBrand([]byte(r.Title)); ok {
		v.Brand = brand
	} else if brand, ok := detector.FindBrand(r.firmware()); ok {
		v.Brand = brand
	}

	v.Number = r.findVersionNumber()

	c := cursor.NewBE(r.image)
	if err := c.Seek(headerBuild); err == nil {
		s, err := c.ReadCString(buildSize, false, cursor.Printable)
		if err == nil && s.Value != "" {
			build, err := model.ParseBuild(s.Value)
			if err != nil {
				r.logger.Debug("Unreadable build timestamp", log.String("build", s.Value))
			} else {
				v.Build = build
			}
		}
	}
	return v
}

// findVersionNumber searches the decompressed menu files before the plain firmware.
func (r *ROM) findVersionNumber() string {
	var number string
	if r.Files != nil {
		r.Files.Walk(func(file *fsblob.File) {
			if number != "" {
				return
			}
			if m := versionPattern.FindSubmatch(file.Data); m != nil {
				number = string(m[1])
			}
		})
	}
	if number != "" {
		return number
	}

	if m := versionPattern.FindSubmatch(r.firmware()); m != nil {
		return string(m[1])
	}
	return ""
}
