// Package svgexport reads circles out of an SVG produced by LibreOffice Draw
// from a CorelDRAW drawing.
//
// LibreOffice writes every shape as a group of elements:
//
//	<g class="com.sun.star.drawing.ClosedBezierShape">
//	  <g id="id3">
//	    <rect class="BoundingBox" x="1350" y="150" width="300" height="300"/>
//	    <path fill="rgb(255,0,0)" d="..."/>
//	  </g>
//	</g>
//
// and nests the shapes of a page inside a fixed chain of groups
// (SlideGroup, Slide, Page, Group). The package locates that chain with a
// named query (GroupQuery) instead of positional indexing, so an unexpected
// export fails with a structural error that says which step did not match.
//
// Only closed bezier shapes are treated as circles. Their center and radius
// come from the bounding box; the color comes from the path's fill value.
// A fill that cannot be parsed is not fatal: the circle is kept with a nil
// color and a Warning is recorded.
package svgexport
