// Copyright 2024 The Ironclad Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package manifold

import "github.com/ironclad-phys/ironclad/math32"

// clipGroupAgainstFace clips the group's B-points against the supporting
// face polygon carried by the group's hits (Sutherland-Hodgman) and returns
// one hit per vertex of the clipped polygon. If the face has fewer than
// three vertices, or nothing is left after clipping, the hits are returned
// unchanged.
func clipGroupAgainstFace(hits []Hit) []Hit {
	face := hits[0].FaceB
	if len(face) < 3 {
		return hits
	}
	polygon := clipPolygonToFace(pointsOf(hits), face)
	if len(polygon) == 0 {
		return hits
	}
	out := make([]Hit, len(polygon))
	for i, p := range polygon {
		src := hits[i%len(hits)]
		src.PointB = p
		out[i] = src
	}
	return out
}

func pointsOf(hits []Hit) []math32.Vector3 {
	pts := make([]math32.Vector3, len(hits))
	for i, h := range hits {
		pts[i] = h.PointB
	}
	return pts
}

// clipPolygonToFace clips a point set (treated as a degenerate polygon)
// against each edge-plane of a convex face polygon using the
// Sutherland-Hodgman algorithm.
func clipPolygonToFace(points []math32.Vector3, face []math32.Vector3) []math32.Vector3 {
	if len(points) == 0 {
		return points
	}
	normal := faceNormal(face)

	output := points
	for i := 0; i < len(face); i++ {
		a := face[i]
		b := face[(i+1)%len(face)]
		edge := b
		edge.Sub(&a)
		planeNormal := edge
		planeNormal.Cross(&normal)
		planeNormal.Normalize()
		planeConstant := -planeNormal.Dot(&a)

		output = clipAgainstPlane(output, planeNormal, planeConstant)
		if len(output) == 0 {
			break
		}
	}
	return output
}

func faceNormal(face []math32.Vector3) math32.Vector3 {
	e1 := face[1]
	e1.Sub(&face[0])
	e2 := face[2]
	e2.Sub(&face[0])
	n := e1
	n.Cross(&e2)
	n.Normalize()
	return n
}

// clipAgainstPlane clips a closed point loop against the half-space
// planeNormal.p + planeConstant <= 0, the teacher's ClipFaceAgainstPlane
// algorithm generalized to arbitrary planes.
func clipAgainstPlane(points []math32.Vector3, planeNormal math32.Vector3, planeConstant float32) []math32.Vector3 {
	if len(points) < 2 {
		return points
	}
	var out []math32.Vector3
	first := points[len(points)-1]
	dotFirst := planeNormal.Dot(&first) + planeConstant

	for _, last := range points {
		dotLast := planeNormal.Dot(&last) + planeConstant
		switch {
		case dotFirst < 0 && dotLast < 0:
			out = append(out, last)
		case dotFirst < 0 && dotLast >= 0:
			out = append(out, lerp(first, last, dotFirst/(dotFirst-dotLast)))
		case dotFirst >= 0 && dotLast < 0:
			out = append(out, lerp(first, last, dotFirst/(dotFirst-dotLast)))
			out = append(out, last)
		}
		first = last
		dotFirst = dotLast
	}
	return out
}

func lerp(a, b math32.Vector3, t float32) math32.Vector3 {
	return math32.Vector3{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
		Z: a.Z + (b.Z-a.Z)*t,
	}
}
