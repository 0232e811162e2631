package pngsink

import (
	"strings"

	exif "github.com/dsoprea/go-exif/v3"
	exifcommon "github.com/dsoprea/go-exif/v3/common"
)

// ExifTag is one decoded EXIF entry.
type ExifTag struct {
	IfdPath string
	Name    string
	Value   string
}

// BuildExif encodes an IFD0 carrying the Software and ImageDescription tags, in
// the layout expected by an eXIf chunk.
func BuildExif(software, description string) ([]byte, error) {
	im, err := exifcommon.NewIfdMappingWithStandard()
	if err != nil {
		return nil, err
	}
	ti := exif.NewTagIndex()

	ib := exif.NewIfdBuilder(im, ti, exifcommon.IfdStandardIfdIdentity, exifcommon.EncodeDefaultByteOrder)
	if err := ib.AddStandardWithName("Software", software); err != nil {
		return nil, err
	}
	if description != "" {
		if err := ib.AddStandardWithName("ImageDescription", description); err != nil {
			return nil, err
		}
	}

	return exif.NewIfdByteEncoder().EncodeToExif(ib)
}

// ReadExif decodes the tags of an eXIf payload.
func ReadExif(data []byte) ([]ExifTag, error) {
	raw, err := exif.SearchAndExtractExif(data)
	if err != nil {
		if errorsIsNoExif(err) {
			return nil, nil
		}
		return nil, err
	}

	tags, _, err := exif.GetFlatExifData(raw, nil)
	if err != nil {
		return nil, err
	}

	out := make([]ExifTag, 0, len(tags))
	for _, tag := range tags {
		out = append(out, ExifTag{
			IfdPath: tag.IfdPath,
			Name:    tag.TagName,
			Value:   strings.TrimRight(tag.FormattedFirst, "\x00"),
		})
	}
	return out, nil
}

func errorsIsNoExif(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "no exif")
}
