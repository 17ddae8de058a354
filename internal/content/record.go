package content

import "slidewiz/internal/slidetext"

// SlideRecord is everything the deck needs for one content slide.
type SlideRecord struct {
	Title          string
	Bullets        []string
	Notes          string
	ImageKeyword   string
	ImageLocalPath string
}

// SetBullets replaces the bullets, dropping blanks and keeping at most
// slidetext.MaxBullets.
func (r *SlideRecord) SetBullets(bullets []string) {
	r.Bullets = cleanBullets(bullets)
}

// AddBullet appends b unless the slide is already full.
func (r *SlideRecord) AddBullet(b string) bool {
	if len(r.Bullets) >= slidetext.MaxBullets {
		return false
	}
	r.SetBullets(append(r.Bullets, b))
	return true
}

// WordCount counts the words across all bullets.
func (r *SlideRecord) WordCount() int {
	return slidetext.WordCount(r.Bullets)
}

// HasImage reports whether an image was resolved for the slide.
func (r *SlideRecord) HasImage() bool {
	return r.ImageLocalPath != ""
}
