// Package contractfile loads interactions from YAML or JSON contract files.
//
// A contract file lists interactions in their wire shape:
//
//	consumer: Zoo App
//	provider: Animal Service
//	interactions:
//	  - description: a request for an alligator
//	    providerState: there is an alligator named Mary
//	    request:
//	      method: get
//	      path: /alligators/Mary
//	      headers:
//	        Accept: application/json
//	    response:
//	      status: 200
//	      body:
//	        name: {$like: Mary}
//	        born: {$term: {generate: "2020-01-01", matcher: "\\d{4}-\\d{2}-\\d{2}"}}
//	        teeth: {$eachLike: {size: 3}, min: 2}
//
// Matchers may be written in the mock service's json_class form or in the
// $term, $like and $eachLike shorthand. Files are validated against an
// embedded JSON Schema before they are decoded.
package contractfile
