/*
go-annotate transforms object detection and segmentation annotations
consistently with the geometric augmentations applied to their images.

Annotations are held in pixel space and only converted to normalized
coordinates at the YOLO label file boundary.  Every operation (flip, rotate,
resize, letterbox, crop, shear and perspective) is described by a
transform.Spec that resolves to a single matrix, so the same operation is
applied to image pixels and to the boxes and polygons labelling them.

The root package ties the subpackages together into a batch Processor that
reads a YOLO dataset, applies a transform chain to every image and its
labels across a pool of workers and writes the results.

See the annotate command under cmd/ for usage.
*/
package annotate
