package vo

import "fmt"

// EncodeProfile is the fixed vertical short-form output profile: MP4,
// H.264/AAC, 1080x1920. Every segment and composite is produced in this
// profile regardless of source aspect ratio.
type EncodeProfile struct {
	Width        int
	Height       int
	AudioCodec   string
	AudioBitrate string
}

// DefaultVerticalProfile returns the 9:16 output profile.
func DefaultVerticalProfile() EncodeProfile {
	return EncodeProfile{
		Width:        1080,
		Height:       1920,
		AudioCodec:   "aac",
		AudioBitrate: "128k",
	}
}

// ScalePadFilter scales the input to fit inside the frame and letterboxes
// the remainder, so no content is cropped.
func (p EncodeProfile) ScalePadFilter() string {
	return fmt.Sprintf(
		"scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2:color=black",
		p.Width, p.Height, p.Width, p.Height,
	)
}

// StackFilter builds the two-input filter graph for the composite stage:
// segment on the top half, background on the bottom half, each half
// scale-to-fill then center-cropped.
func (p EncodeProfile) StackFilter() string {
	halfH := p.Height / 2
	return fmt.Sprintf(
		"[0:v]scale=%d:%d:force_original_aspect_ratio=increase,crop=%d:%d[top];"+
			"[1:v]scale=%d:%d:force_original_aspect_ratio=increase,crop=%d:%d[bot];"+
			"[top][bot]vstack=inputs=2[v]",
		p.Width, halfH, p.Width, halfH,
		p.Width, halfH, p.Width, halfH,
	)
}
