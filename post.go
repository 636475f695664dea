package chankit

import (
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

// stripTags removes markup from comment HTML, keeping only text content.
var stripTags = bluemonday.StrictPolicy()

var lineBreaks = strings.NewReplacer("<br>", "\n", "<br/>", "\n", "<br />", "\n", "<wbr>", "")

// Post is a single post as served by the JSON API. Catalog pages carry one
// Post per thread (the opening post), thread pages carry the full reply chain.
type Post struct {
	No           int64  `json:"no" validate:"required"`
	Resto        int64  `json:"resto"`
	Sticky       int    `json:"sticky,omitempty"`
	Closed       int    `json:"closed,omitempty"`
	Archived     int    `json:"archived,omitempty"`
	Now          string `json:"now,omitempty"`
	Time         int64  `json:"time"`
	Name         string `json:"name,omitempty"`
	Trip         string `json:"trip,omitempty"`
	Capcode      string `json:"capcode,omitempty"`
	Country      string `json:"country,omitempty"`
	Sub          string `json:"sub,omitempty"`
	Com          string `json:"com,omitempty"`
	Tim          int64  `json:"tim,omitempty"`
	Filename     string `json:"filename,omitempty"`
	Ext          string `json:"ext,omitempty"`
	Fsize        int64  `json:"fsize,omitempty"`
	MD5          string `json:"md5,omitempty"`
	Width        int    `json:"w,omitempty"`
	Height       int    `json:"h,omitempty"`
	TnWidth      int    `json:"tn_w,omitempty"`
	TnHeight     int    `json:"tn_h,omitempty"`
	Replies      int    `json:"replies,omitempty"`
	Images       int    `json:"images,omitempty"`
	LastModified int64  `json:"last_modified,omitempty"`
}

// PostedAt returns the post's creation time.
func (p *Post) PostedAt() time.Time {
	return time.Unix(p.Time, 0)
}

// HasFile reports whether the post has an attached file.
func (p *Post) HasFile() bool {
	return p.Filename != ""
}

// File returns the attached file's name with extension, or "" if the post
// has no file.
func (p *Post) File() string {
	if !p.HasFile() {
		return ""
	}
	return p.Filename + p.Ext
}

// CommentText returns the comment body as plain text, with markup stripped
// and HTML entities decoded.
func (p *Post) CommentText() string {
	if p.Com == "" {
		return ""
	}
	text := lineBreaks.Replace(p.Com)
	text = stripTags.Sanitize(text)
	return html.UnescapeString(text)
}

// Matches reports whether re matches the post's author name, comment text,
// subject or filename.
func (p *Post) Matches(re *regexp.Regexp) bool {
	return re.MatchString(p.Name) ||
		re.MatchString(p.CommentText()) ||
		re.MatchString(p.Sub) ||
		re.MatchString(p.File())
}
