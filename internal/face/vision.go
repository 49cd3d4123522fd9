package face

import (
	"context"
	"fmt"
	"math"
	"time"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"
)

// verifyThreshold is the minimum landmark-geometry similarity for two faces
// to count as the same person.
const verifyThreshold = 0.82

// VisionComparator compares faces using Google Cloud Vision face detection.
// Each image is annotated for face landmarks and the normalized landmark
// geometry of the most prominent face is compared.
type VisionComparator struct {
	client *vision.ImageAnnotatorClient
}

// NewVisionComparator creates a new VisionComparator.
func NewVisionComparator(ctx context.Context, opts ...option.ClientOption) (*VisionComparator, error) {
	client, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("vision client: %w", err)
	}
	return &VisionComparator{client: client}, nil
}

// Close releases the underlying client.
func (c *VisionComparator) Close() error {
	return c.client.Close()
}

func (c *VisionComparator) Compare(ctx context.Context, reference, candidate []byte) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	refFace, err := c.detectFace(ctx, reference)
	if err != nil {
		return Result{}, fmt.Errorf("reference image: %w", err)
	}
	candFace, err := c.detectFace(ctx, candidate)
	if err != nil {
		return Result{}, fmt.Errorf("candidate image: %w", err)
	}

	score := landmarkSimilarity(refFace, candFace)
	return Result{
		Verified:   score >= verifyThreshold,
		Confidence: score,
	}, nil
}

// detectFace returns the most prominent face annotation in the image.
func (c *VisionComparator) detectFace(ctx context.Context, img []byte) (*visionpb.FaceAnnotation, error) {
	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{{
			Image: &visionpb.Image{Content: img},
			Features: []*visionpb.Feature{
				{Type: visionpb.Feature_FACE_DETECTION, MaxResults: 1},
			},
		}},
	}
	resp, err := c.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("vision BatchAnnotateImages: %w", err)
	}
	if len(resp.Responses) == 0 || resp.Responses[0] == nil {
		return nil, ErrNoFace
	}
	r0 := resp.Responses[0]
	if r0.Error != nil && r0.Error.Message != "" {
		return nil, fmt.Errorf("vision annotate error: %s", r0.Error.Message)
	}
	if len(r0.FaceAnnotations) == 0 {
		return nil, ErrNoFace
	}
	return r0.FaceAnnotations[0], nil
}

// landmarkSimilarity compares the landmark geometry of two faces. Landmarks
// are normalized by the inter-eye distance so the score is invariant to image
// scale and face position.
func landmarkSimilarity(a, b *visionpb.FaceAnnotation) float64 {
	la := normalizedLandmarks(a)
	lb := normalizedLandmarks(b)
	if la == nil || lb == nil {
		return 0
	}

	var sum float64
	n := 0
	for typ, pa := range la {
		pb, ok := lb[typ]
		if !ok {
			continue
		}
		dx := pa[0] - pb[0]
		dy := pa[1] - pb[1]
		sum += math.Sqrt(dx*dx + dy*dy)
		n++
	}
	if n == 0 {
		return 0
	}

	// Mean landmark displacement in inter-eye units maps onto a similarity
	// score where 0 displacement is 1.0 and one eye-width apart is 0.
	mean := sum / float64(n)
	score := 1 - mean
	if score < 0 {
		score = 0
	}
	return score
}

// normalizedLandmarks translates landmarks to a mid-eye origin and scales
// them by the inter-eye distance.
func normalizedLandmarks(f *visionpb.FaceAnnotation) map[visionpb.FaceAnnotation_Landmark_Type][2]float64 {
	raw := make(map[visionpb.FaceAnnotation_Landmark_Type][2]float64, len(f.Landmarks))
	for _, lm := range f.Landmarks {
		if lm == nil || lm.Position == nil {
			continue
		}
		raw[lm.Type] = [2]float64{float64(lm.Position.X), float64(lm.Position.Y)}
	}

	left, lok := raw[visionpb.FaceAnnotation_Landmark_LEFT_EYE]
	right, rok := raw[visionpb.FaceAnnotation_Landmark_RIGHT_EYE]
	if !lok || !rok {
		return nil
	}
	dx := right[0] - left[0]
	dy := right[1] - left[1]
	eyeDist := math.Sqrt(dx*dx + dy*dy)
	if eyeDist == 0 {
		return nil
	}
	cx := (left[0] + right[0]) / 2
	cy := (left[1] + right[1]) / 2

	out := make(map[visionpb.FaceAnnotation_Landmark_Type][2]float64, len(raw))
	for typ, p := range raw {
		out[typ] = [2]float64{(p[0] - cx) / eyeDist, (p[1] - cy) / eyeDist}
	}
	return out
}
